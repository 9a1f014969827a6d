package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "MDMREG"

	cfgKeyRegistry     = "registry"
	cfgKeyDataDir      = "data_dir"
	cfgKeyAuthor       = "author"
	cfgKeyExportDir    = "export_dir"
	cfgKeySchemaFormat = "schema_format"
	cfgKeyLogLevel     = "log_level"

	defaultAuthor   = "system"
	defaultLogLevel = "warn"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# mdmreg configuration

# Registry file (optional; overridable by --registry)
# registry:

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Author recorded in change-log entries
author: system

# Directory receiving exported schema files (default: <data_dir>/schemas)
# export_dir:

# Output format for "schema" and "export schemas": json or yaml
schema_format: json

# debug, info, warn or error
log_level: warn
`

// loadConfig reads config.yaml from configDir using Viper, creating the
// directory and a default file on first run. MDMREG_AUTHOR, MDMREG_EXPORT_DIR,
// MDMREG_SCHEMA_FORMAT and MDMREG_LOG_LEVEL override the file. Directory
// keys are resolved by package paths, which applies its own env precedence.
func loadConfig(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, systemError(fmt.Errorf("ensure config dir: %w", err))
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, systemError(fmt.Errorf("ensure default config: %w", err))
	}

	v := viper.New()
	v.SetDefault(cfgKeyRegistry, "")
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyAuthor, defaultAuthor)
	v.SetDefault(cfgKeyExportDir, "")
	v.SetDefault(cfgKeySchemaFormat, types.FormatJSON)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyAuthor, cfgKeyExportDir, cfgKeySchemaFormat, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config %s: %w", filepath.Join(configDir, configFileExt), err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// newLogger builds the stderr text logger. verbose forces debug.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

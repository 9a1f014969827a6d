// Package paths resolves where mdmreg keeps its configuration, its registry
// file and its generated artifacts.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory.
const AppName = "mdmreg"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".mdmreg"

// DefaultExportDirName is the subdirectory of the data directory that
// receives generated schema files.
const DefaultExportDirName = "schemas"

// Environment variable overrides.
const (
	EnvConfigDir = "MDMREG_CONFIG_DIR"
	EnvDataDir   = "MDMREG_DATA_DIR"
	EnvRegistry  = "MDMREG_REGISTRY"
)

// registryFileName matches exchange.RegistryFileName.
const registryFileName = "mdm-registry.json"

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/mdmreg (fallback ~/.config/mdmreg)
// macOS:   ~/Library/Application Support/mdmreg
// Windows: %APPDATA%/mdmreg
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_CONFIG_HOME", ".config")
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

func xdgDir(env string, fallback ...string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// ResolveConfigDir applies flag > MDMREG_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config value > MDMREG_DATA_DIR >
// $(CWD)/.mdmreg. Registries are project-local by default, so the fallback
// is relative to the working directory rather than per-user.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveRegistry applies flag > config value > MDMREG_REGISTRY >
// <dataDir>/mdm-registry.json.
func ResolveRegistry(flag, configValue, dataDir string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvRegistry)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return filepath.Join(dataDir, registryFileName), nil
}

// ResolveExportDir returns configValue when set and <dataDir>/schemas
// otherwise.
func ResolveExportDir(configValue, dataDir string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(dataDir, DefaultExportDirName), nil
}

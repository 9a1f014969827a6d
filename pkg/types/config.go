package types

import (
	"errors"
	"fmt"
)

// Config holds the settings of the registry tool. Zero values fall back to
// defaults chosen by the CLI.
type Config struct {
	RegistryPath string `json:"registry" yaml:"registry" mapstructure:"registry"`
	DataDir      string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	Author       string `json:"author" yaml:"author" mapstructure:"author"`
	ExportDir    string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`
	SchemaFormat string `json:"schema_format" yaml:"schema_format" mapstructure:"schema_format"`
	LogLevel     string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Supported schema output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config validation errors.
var (
	ErrFormatUnknown   = errors.New("unknown schema format")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

var knownFormats = map[string]bool{
	"":         true,
	FormatJSON: true,
	FormatYAML: true,
}

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if !knownFormats[c.SchemaFormat] {
		return fmt.Errorf("%w: %q", ErrFormatUnknown, c.SchemaFormat)
	}
	if !knownLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %q", ErrLogLevelUnknown, c.LogLevel)
	}
	return nil
}

package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/yairfalse/driftcatch/internal/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. DRIFTCATCH_LOGGING_LEVEL
const EnvPrefix = "DRIFTCATCH"

// Config represents the complete driftcatch configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Check   CheckConfig   `mapstructure:"check"`
}

// StorageConfig contains snapshot storage configuration
type StorageConfig struct {
	SnapshotDir string `mapstructure:"snapshot_dir"`
	BackupDir   string `mapstructure:"backup_dir"`
	AWSRegion   string `mapstructure:"aws_region"`
}

// OutputConfig contains report formatting configuration
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CheckConfig controls the CI gate
type CheckConfig struct {
	// FailOn is the lowest severity that blocks the pipeline
	FailOn string `mapstructure:"fail_on"`
}

var validOutputFormats = []string{"text", "table", "json", "yaml", "yml", "markdown", "md", "name-only", "stat"}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			SnapshotDir: ".driftcatch",
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Check: CheckConfig{
			FailOn: "BREAKING",
		},
	}
}

// SetDefaults registers the defaults with v so env overrides resolve
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("storage.snapshot_dir", d.Storage.SnapshotDir)
	v.SetDefault("storage.backup_dir", d.Storage.BackupDir)
	v.SetDefault("storage.aws_region", d.Storage.AWSRegion)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("check.fail_on", d.Check.FailOn)
}

// Load reads configuration into the global viper instance
func Load(configFile string) (*Config, error) {
	return LoadWith(viper.GetViper(), configFile)
}

// LoadWith reads configuration from an explicit file or the search path,
// then applies DRIFTCATCH_* environment overrides and any bound flags.
func LoadWith(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".driftcatch")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".driftcatch"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing file on the search path is fine; an explicit one must exist
		if !stderrors.As(err, &notFound) || configFile != "" {
			return nil, errors.ConfigurationError("failed to read config file", err)
		}
	}

	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.ConfigurationError("failed to unmarshal config", err)
	}

	if err := config.ExpandPaths(); err != nil {
		return nil, errors.ConfigurationError("failed to expand paths", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.SnapshotDir) == "" {
		return errors.ConfigurationError("storage.snapshot_dir is required", nil)
	}

	if !contains(validOutputFormats, strings.ToLower(c.Output.Format)) {
		return errors.ConfigurationError(
			fmt.Sprintf("output.format %q is not one of %s", c.Output.Format, strings.Join(validOutputFormats, ", ")), nil)
	}

	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return errors.ConfigurationError(fmt.Sprintf("logging.level %q is invalid", c.Logging.Level), err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.ConfigurationError(fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format), nil)
	}

	// INFO is not a gate level
	switch strings.ToUpper(c.Check.FailOn) {
	case "BREAKING", "WARNING":
	default:
		return errors.ConfigurationError(fmt.Sprintf("check.fail_on %q must be BREAKING or WARNING", c.Check.FailOn), nil)
	}

	return nil
}

// ExpandPaths expands home directory paths
func (c *Config) ExpandPaths() error {
	var err error
	c.Storage.SnapshotDir, err = expandPath(c.Storage.SnapshotDir)
	if err != nil {
		return fmt.Errorf("failed to expand snapshot dir: %w", err)
	}
	c.Storage.BackupDir, err = expandPath(c.Storage.BackupDir)
	if err != nil {
		return fmt.Errorf("failed to expand backup dir: %w", err)
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path, err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Package config loads rsakit CLI settings from defaults, an optional
// configuration file, a .env file and RSAKIT_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "RSAKIT"

// DefaultProfile is the configuration file written by the init command.
const DefaultProfile = "rsakit.yaml"

// TemplateProfile documents every setting with its default.
const TemplateProfile = `# directory of the key store
keystore: "./rsakit-keys"
# modulus size in bits for new keys; must be even
bits: 512
# public exponent; must be odd and >= 3
exponent: 65537
# Miller-Rabin witnesses per prime candidate
rounds: 20
# prime pairs drawn before key generation gives up
max_attempts: 16
# search p and q concurrently
parallel: true

log:
  # log file; empty logs to stderr
  file: ""
  # debug, info, warn or error
  level: "info"
  # rotation settings for file output
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
`

// Log holds logger settings.
type Log struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// Config holds all CLI settings.
type Config struct {
	Keystore    string `mapstructure:"keystore" yaml:"keystore"`
	Bits        int    `mapstructure:"bits" yaml:"bits"`
	Exponent    int64  `mapstructure:"exponent" yaml:"exponent"`
	Rounds      int    `mapstructure:"rounds" yaml:"rounds"`
	MaxAttempts int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	Parallel    bool   `mapstructure:"parallel" yaml:"parallel"`
	Log         Log    `mapstructure:"log" yaml:"log"`
}

// SetDefaults registers the default of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("keystore", "./rsakit-keys")
	v.SetDefault("bits", 512)
	v.SetDefault("exponent", 65537)
	v.SetDefault("rounds", 20)
	v.SetDefault("max_attempts", 16)
	v.SetDefault("parallel", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads configuration into v and returns the decoded result.
// fpath may be empty, in which case only defaults, the environment and
// any flags already bound to v apply. A .env file in the working directory
// is loaded into the environment first when present.
func Load(v *viper.Viper, fpath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fpath != "" {
		fstat, err := os.Stat(fpath)
		if err != nil {
			return nil, errors.Wrap(err, "stat config file")
		}
		if fstat.IsDir() {
			return nil, errors.Errorf("the '%v' is not a file", fpath)
		}

		v.SetConfigFile(fpath)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(fpath), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("[ReadInConfig] %v", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Errorf("[Unmarshal] %v", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks settings that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Keystore == "" {
		return errors.New("'keystore' can not be empty")
	}
	if c.Bits < 4 || c.Bits%2 != 0 {
		return errors.Errorf("'bits' must be even and >= 4, got %d", c.Bits)
	}
	if c.Exponent < 3 || c.Exponent%2 == 0 {
		return errors.Errorf("'exponent' must be odd and >= 3, got %d", c.Exponent)
	}
	if c.Rounds < 1 {
		return errors.Errorf("'rounds' must be positive, got %d", c.Rounds)
	}
	if c.MaxAttempts < 1 {
		return errors.Errorf("'max_attempts' must be positive, got %d", c.MaxAttempts)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("'log.level' must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Package config provides configuration utilities for the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyAccountName   = "account.name"
	KeyDatabasePath  = "database.path"
	KeyHistoryDir    = "history.dir"
	KeyDefaultPeriod = "budget.default_period"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

// Defaults.
const (
	DefaultDatabasePath = "$HOME/.local/share/carbon/carbon.db"
	DefaultHistoryDir   = "."
)

// Config holds the resolved tracker configuration.
type Config struct {
	AccountName   string       `validate:"omitempty,max=64"`
	DatabasePath  string       `validate:"required"`
	HistoryDir    string       `validate:"required"`
	DefaultPeriod model.Period `validate:"oneof=WEEK MONTH"`
	LogLevel      string       `validate:"oneof=debug info warn error"`
	LogFormat     string       `validate:"oneof=console json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldKeys maps struct fields back to the configuration keys users set.
var fieldKeys = map[string]string{
	"AccountName":   KeyAccountName,
	"DatabasePath":  KeyDatabasePath,
	"HistoryDir":    KeyHistoryDir,
	"DefaultPeriod": KeyDefaultPeriod,
	"LogLevel":      KeyLogLevel,
	"LogFormat":     KeyLogFormat,
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyHistoryDir, DefaultHistoryDir)
	v.SetDefault(KeyDefaultPeriod, string(model.PeriodWeek))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the tracker configuration from v, which may be nil to use the
// global viper instance. Values come from flags, CARBON_ environment
// variables, the config file and finally defaults.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)

	cfg := &Config{
		AccountName:  strings.TrimSpace(v.GetString(KeyAccountName)),
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		HistoryDir:   ExpandPath(v.GetString(KeyHistoryDir)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	period, err := model.ParsePeriod(v.GetString(KeyDefaultPeriod))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyDefaultPeriod, err)
	}
	cfg.DefaultPeriod = period

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are usable. The first failing field
// is reported by its configuration key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		key := fieldKeys[fe.Field()]
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: %s is required", common.ErrInvalidConfig, key)
		}
		return fmt.Errorf("%w: invalid %s: %v", common.ErrInvalidConfig, key, fe.Value())
	}
	return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %w", common.ErrInvalidConfig, path, err)
	}
	return nil
}

// RequireAccount returns the configured account name or a user-facing error.
func (c *Config) RequireAccount() (string, error) {
	if c.AccountName == "" {
		return "", common.NewUserError(
			"no account selected; pass --account or set account.name in the config file",
			common.ErrInvalidConfig)
	}
	return c.AccountName, nil
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

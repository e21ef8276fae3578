package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"hrsync/hrworks"
	"hrsync/internal/timeutil"
)

const (
	KeyHRworksBaseURL           = "hrworks.base_url"
	KeyHRworksAccessKey         = "hrworks.access_key"
	KeyHRworksSecretAccessKey   = "hrworks.secret_access_key"
	KeyHRworksTimeout           = "hrworks.timeout"
	KeyHRworksRequestsPerSecond = "hrworks.requests_per_second"
	KeyImportMode               = "import.mode"
	KeyImportTimezone           = "import.timezone"
	KeyImportEncoding           = "import.encoding"
	KeyHistoryEnabled           = "history.enabled"
	KeyHistoryDBPath            = "history.db_path"
	KeyLogLevel                 = "log.level"

	DefaultTimeout = 60 * time.Second
)

type Config struct {
	HRworks HRworksConfig `mapstructure:"hrworks" validate:"required"`
	Import  ImportConfig  `mapstructure:"import"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type HRworksConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	AccessKey         string        `mapstructure:"access_key"`
	SecretAccessKey   string        `mapstructure:"secret_access_key"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gte=0"`
}

type ImportConfig struct {
	Mode     string `mapstructure:"mode" validate:"oneof=id name"`
	Timezone string `mapstructure:"timezone" validate:"required"`
	Encoding string `mapstructure:"encoding" validate:"oneof=utf-8 utf-16 windows-1252"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// DefaultHistoryPath is $HOME/.hrsync/history.db, or a relative path when
// the home directory is unknown.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".hrsync", "history.db")
	}
	return filepath.Join(home, ".hrsync", "history.db")
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return ExampleYAMLFor(ImportConfig{Mode: "id", Timezone: timeutil.DefaultTimezone, Encoding: "utf-8"})
}

// ExampleYAMLFor renders the template with the given import section.
// Empty fields fall back to the defaults.
func ExampleYAMLFor(imp ImportConfig) string {
	if strings.TrimSpace(imp.Mode) == "" {
		imp.Mode = "id"
	}
	if strings.TrimSpace(imp.Timezone) == "" {
		imp.Timezone = timeutil.DefaultTimezone
	}
	if strings.TrimSpace(imp.Encoding) == "" {
		imp.Encoding = "utf-8"
	}

	return fmt.Sprintf(`# hrsync configuration
hrworks:
  base_url: %q
  # Prefer HRWORKS_ACCESS_KEY / HRWORKS_SECRET_ACCESS_KEY or a .env file.
  access_key: ""
  secret_access_key: ""
  timeout: 60s
  # 0 disables client-side rate limiting.
  requests_per_second: 0

import:
  # id: the project column holds project numbers; name: project names
  mode: %s
  timezone: %q
  encoding: %s

history:
  enabled: false
  db_path: ""

log:
  level: info
`, hrworks.DefaultBaseURL, imp.Mode, imp.Timezone, imp.Encoding)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if strings.TrimSpace(cfg.History.DBPath) == "" {
		cfg.History.DBPath = DefaultHistoryPath()
	}
	cfg.Import.Mode = strings.ToLower(strings.TrimSpace(cfg.Import.Mode))
	cfg.Import.Encoding = strings.ToLower(strings.TrimSpace(cfg.Import.Encoding))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := timeutil.LoadLocation(cfg.Import.Timezone); err != nil {
		return nil, fmt.Errorf("validation failed: import.timezone: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHRworksBaseURL, hrworks.DefaultBaseURL)
	v.SetDefault(KeyHRworksAccessKey, "")
	v.SetDefault(KeyHRworksSecretAccessKey, "")
	v.SetDefault(KeyHRworksTimeout, DefaultTimeout)
	v.SetDefault(KeyHRworksRequestsPerSecond, 0)
	v.SetDefault(KeyImportMode, "id")
	v.SetDefault(KeyImportTimezone, timeutil.DefaultTimezone)
	v.SetDefault(KeyImportEncoding, "utf-8")
	v.SetDefault(KeyHistoryEnabled, false)
	v.SetDefault(KeyHistoryDBPath, "")
	v.SetDefault(KeyLogLevel, "info")
}

package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Paths   PathsConfig   `yaml:"paths"`
	Sites   []SiteConfig  `yaml:"sites" validate:"dive"`
	Charts  ChartsConfig  `yaml:"charts"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" validate:"oneof=json text"`
	Output   string `yaml:"output" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir"`
	LogsDir string `yaml:"logs_dir"`
}

// SiteConfig describes one study site. Coordinates feed the diel
// (dawn/day/dusk/night) classification of capture times.
type SiteConfig struct {
	Code      string  `yaml:"code" validate:"required,site_code"`
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude" validate:"latitude"`
	Longitude float64 `yaml:"longitude" validate:"longitude"`
	Elevation float64 `yaml:"elevation"`
	Timezone  string  `yaml:"timezone"`
}

// ChartsConfig contains chart rendering configuration
type ChartsConfig struct {
	Width           string        `yaml:"width"`
	Height          string        `yaml:"height"`
	AssetsHost      string        `yaml:"assets_host" validate:"omitempty,url"`
	SnapshotTimeout time.Duration `yaml:"snapshot_timeout"`
	SnapshotWorkers int           `yaml:"snapshot_workers" validate:"omitempty,min=1,max=8"`
}

// Load loads configuration from the given YAML file. An empty path probes
// the default locations; a missing file falls back to defaults. There is no
// environment-variable layer: settings come from the file and tool flags.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg. Fields
// absent from the file keep their defaults.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults
}

// Site returns the site configuration for a code, case-insensitively.
func (c *Config) Site(code string) (SiteConfig, bool) {
	code = strings.TrimSpace(code)
	for _, s := range c.Sites {
		if strings.EqualFold(s.Code, code) {
			return s, true
		}
	}
	return SiteConfig{}, false
}

// Location resolves the site's IANA timezone; empty means the local zone.
func (s SiteConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// newValidator builds the struct validator with domain validators registered
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("site_code", isValidSiteCode)

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isValidSiteCode validates site code format: 2-4 uppercase letters or
// digits, matching the airfield identifiers used in the field logs.
func isValidSiteCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) < 2 || len(code) > 4 {
		return false
	}
	for _, ch := range code {
		if !((ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}
	return true
}

// validate validates the configuration
func (c *Config) validate() error {
	v := newValidator()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatValidationError(fe))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	seen := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		key := strings.ToUpper(s.Code)
		if seen[key] {
			return fmt.Errorf("config validation failed: duplicate site code %s", s.Code)
		}
		seen[key] = true
	}

	if c.Charts.SnapshotTimeout <= 0 {
		c.Charts.SnapshotTimeout = ChartSnapshotTimeout
	}
	if c.Charts.SnapshotWorkers <= 0 {
		c.Charts.SnapshotWorkers = DefaultSnapshotWorkers
	}

	return nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude", field)
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude", field)
	case "site_code":
		return fmt.Sprintf("%s must be a 2-4 character site code", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
			LogsDir: DefaultLogsDir,
		},
		Charts: ChartsConfig{
			Width:           DefaultChartWidth,
			Height:          DefaultChartHeight,
			SnapshotTimeout: ChartSnapshotTimeout,
			SnapshotWorkers: DefaultSnapshotWorkers,
		},
	}
}

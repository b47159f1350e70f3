package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration
type Config struct {
	API     APIConfig     `yaml:"api" envconfig:"API"`
	Inputs  InputsConfig  `yaml:"inputs" envconfig:"INPUTS"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// APIConfig contains the health atlas client configuration
type APIConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// InputsConfig locates the local input files. File fields are optional:
// empty fields are resolved by discovery against Dir.
type InputsConfig struct {
	Dir           string `yaml:"dir" envconfig:"DIR"`
	HardshipFile  string `yaml:"hardship_file" envconfig:"HARDSHIP_FILE"`
	PayrollFile   string `yaml:"payroll_file" envconfig:"PAYROLL_FILE"`
	ProfilesFile  string `yaml:"profiles_file" envconfig:"PROFILES_FILE"`
	LocationsFile string `yaml:"locations_file" envconfig:"LOCATIONS_FILE"`
}

// OutputConfig controls where and how the output tables are written
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR"`
	IncludeBOM bool   `yaml:"include_bom" envconfig:"INCLUDE_BOM"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"omitempty,oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

var structValidator = validator.New()

// Load loads configuration from environment variables and config file.
// Environment variables (CPS_*) take precedence over the file; defaults
// fill whatever both left unset.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path
// falls back to the default search locations; a non-empty path must
// point at a readable file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CPS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	cfg.applyDefaults()

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.API.BaseURL == "" {
		envConfig.API.BaseURL = fileConfig.API.BaseURL
	}
	if envConfig.API.Timeout == 0 {
		envConfig.API.Timeout = fileConfig.API.Timeout
	}

	if envConfig.Inputs.Dir == "" {
		envConfig.Inputs.Dir = fileConfig.Inputs.Dir
	}
	if envConfig.Inputs.HardshipFile == "" {
		envConfig.Inputs.HardshipFile = fileConfig.Inputs.HardshipFile
	}
	if envConfig.Inputs.PayrollFile == "" {
		envConfig.Inputs.PayrollFile = fileConfig.Inputs.PayrollFile
	}
	if envConfig.Inputs.ProfilesFile == "" {
		envConfig.Inputs.ProfilesFile = fileConfig.Inputs.ProfilesFile
	}
	if envConfig.Inputs.LocationsFile == "" {
		envConfig.Inputs.LocationsFile = fileConfig.Inputs.LocationsFile
	}

	if envConfig.Output.Dir == "" {
		envConfig.Output.Dir = fileConfig.Output.Dir
	}
	if !envConfig.Output.IncludeBOM {
		envConfig.Output.IncludeBOM = fileConfig.Output.IncludeBOM
	}

	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if !envConfig.Logging.Development {
		envConfig.Logging.Development = fileConfig.Logging.Development
	}

	return envConfig
}

// applyDefaults fills fields neither the environment nor the file set
func (c *Config) applyDefaults() {
	def := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = def.Logging.Output
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = def.Logging.FilePath
	}
}

// resolvePaths fills directory fields from the executable-relative layout
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	if c.Inputs.Dir == "" {
		c.Inputs.Dir = paths.InputsDir
	}
	if c.Output.Dir == "" {
		c.Output.Dir = paths.OutputDir
	}
	if c.Logging.FilePath == DefaultLogFilePath {
		c.Logging.FilePath = filepath.Join(paths.LogsDir, "pipeline.log")
	}

	return nil
}

// Validate validates the configuration using struct tags and returns the
// first failure as a readable message.
func (c *Config) Validate() error {
	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		msgs = append(msgs, formatValidationError(fieldErr))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Replace(param, " ", ", ", -1))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultHTTPTimeout,
		},
		Inputs: InputsConfig{},
		Output: OutputConfig{
			IncludeBOM: false,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFilePath,
		},
	}
}

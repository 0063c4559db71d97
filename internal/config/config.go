package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// DayPartGrid describes the recurring daypart schedule for one
// convention day: an rrule expanded into the 30-minute grid between
// open and close.
type DayPartGrid struct {
	RRule string `yaml:"rrule" validate:"required"`
	Hours *int   `yaml:"hours,omitempty" validate:"omitempty,min=1,max=24"`
}

// Config represents the application configuration.
type Config struct {
	APIBaseURL   string      `yaml:"apiBaseURL,omitempty"`
	GroupID      string      `yaml:"groupID" validate:"required"`
	ConventionID string      `yaml:"conventionID,omitempty"`
	CachePath    string      `yaml:"cachePath,omitempty"`
	ImportDir    string      `yaml:"importDir,omitempty"`
	ReportDir    string      `yaml:"reportDir,omitempty"`
	LogDir       string      `yaml:"logDir,omitempty"`
	DayPartGrid  DayPartGrid `yaml:"dayPartGrid" validate:"required"`
}

// Secrets holds the platform credentials, kept out of the yaml file.
type Secrets struct {
	APIKeyID string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from conscheduler.yaml.
// It looks for the config file in the current directory first, then in
// the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSecrets reads platform credentials from the environment, loading
// the named dotenv file first when it exists. Already-set environment
// variables win over file entries.
func LoadSecrets(envFile string) (*Secrets, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	secrets := &Secrets{
		APIKeyID: os.Getenv("TTE_API_KEY_ID"),
		Username: os.Getenv("TTE_USERNAME"),
		Password: os.Getenv("TTE_PASSWORD"),
	}
	if err := validate.Struct(secrets); err != nil {
		return nil, fmt.Errorf("missing platform credentials (TTE_API_KEY_ID, TTE_USERNAME, TTE_PASSWORD): %w", err)
	}
	return secrets, nil
}

// Validate validates the configuration struct and checks rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.DayPartGrid.RRule); err != nil {
		return fmt.Errorf("invalid rrule in dayPartGrid: %w", err)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.CachePath == "" {
		cfg.CachePath = "conscheduler.db"
	}
	if cfg.ImportDir == "" {
		cfg.ImportDir = "imports"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
}

// findConfigFile searches for conscheduler.yaml in current directory and home directory.
func findConfigFile() (string, error) {
	configFileName := "conscheduler.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}

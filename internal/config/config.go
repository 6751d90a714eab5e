package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AttendanceLayout mirrors the fixed shape of the QT sheet. Overriding it
// is only needed when a station reformats its export.
type AttendanceLayout struct {
	HeaderRow     int `yaml:"headerRow" validate:"min=0"`
	NameColumn    int `yaml:"nameColumn" validate:"min=0"`
	DayBaseColumn int `yaml:"dayBaseColumn" validate:"min=0"`
	DayColumnSpan int `yaml:"dayColumnSpan" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	// Busy window around a flight's ETD. The 4h lead is the team's current
	// business rule (an earlier revision used a 1h trail instead).
	BusyLeadMinutes  int `yaml:"busyLeadMinutes" validate:"min=0"`
	BusyTrailMinutes int `yaml:"busyTrailMinutes" validate:"min=0"`

	Attendance AttendanceLayout `yaml:"attendance"`

	// SpreadsheetID selects the Google Sheets source when no local file is
	// given. Optional.
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		BusyLeadMinutes:  240,
		BusyTrailMinutes: 0,
		Attendance: AttendanceLayout{
			HeaderRow:     2,
			NameColumn:    1,
			DayBaseColumn: 2,
			DayColumnSpan: 3,
		},
	}
}

// Load loads and validates the configuration from groundroster.yaml,
// looking in the current directory first, then in the user's home
// directory. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return Default(), nil
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Fields absent from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// findConfigFile searches for groundroster.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "groundroster.yaml"

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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds the user preferences persisted in the YAML settings file.
// Secrets are never stored here; the import password lives in the OS keyring.
type Settings struct {
	Language        string `yaml:"language"`
	ServerPort      string `yaml:"server_port"`
	RefreshInterval int    `yaml:"refresh_interval_min"`
	DatabasePath    string `yaml:"database_path,omitempty"`

	SourceMode string `yaml:"source_mode,omitempty"`
	LocalPath  string `yaml:"local_path,omitempty"`
	SourceURL  string `yaml:"source_url,omitempty"`
	Username   string `yaml:"username,omitempty"`

	ReminderEnabled   bool   `yaml:"reminder_enabled"`
	ReminderValue     int    `yaml:"reminder_value"`
	ReminderUnit      string `yaml:"reminder_unit"`
	ReminderDirection string `yaml:"reminder_direction"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Language:          DefaultLanguage,
		ServerPort:        DefaultPort,
		RefreshInterval:   DefaultRefreshMin,
		ReminderValue:     DefaultReminderValue,
		ReminderUnit:      UnitDays,
		ReminderDirection: DirBefore,
	}
}

// LoadSettings reads the YAML settings file at path.
// A missing file is not an error: defaults are returned.
// Fields absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug(MsgSettingsAbsent,
			LogKeyComponent, CompSettings,
			LogKeyPath, path)
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}
	s.normalize()
	return s, nil
}

// Save writes the settings to path, creating the parent directory if needed.
func (s Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}

// normalize replaces empty or out-of-range values with defaults.
// Each replacement is logged under the YAML key it came from.
func (s *Settings) normalize() {
	reset := func(key string, value any) {
		slog.Warn(MsgSettingReset,
			LogKeyComponent, CompSettings,
			LogKeyKey, key,
			LogKeyValue, value)
	}

	if s.Language == "" {
		reset(PrefLanguage, s.Language)
		s.Language = DefaultLanguage
	}
	if s.ServerPort == "" {
		reset(PrefServerPort, s.ServerPort)
		s.ServerPort = DefaultPort
	}
	if s.RefreshInterval <= 0 {
		reset(PrefInterval, s.RefreshInterval)
		s.RefreshInterval = DefaultRefreshMin
	}
	switch s.SourceMode {
	case SourceModeNone, SourceModeWeb, SourceModeLocal:
	default:
		reset(PrefSourceMode, s.SourceMode)
		s.SourceMode = SourceModeNone
	}
	if s.ReminderValue <= 0 {
		reset(PrefReminderValue, s.ReminderValue)
		s.ReminderValue = DefaultReminderValue
	}
	switch s.ReminderUnit {
	case UnitDays, UnitHours, UnitMinutes:
	default:
		reset(PrefReminderUnit, s.ReminderUnit)
		s.ReminderUnit = UnitDays
	}
	switch s.ReminderDirection {
	case DirBefore, DirAfter:
	default:
		reset(PrefReminderDir, s.ReminderDirection)
		s.ReminderDirection = DirBefore
	}
}

// ReminderTrigger converts the reminder preferences into an ISO 8601 duration
// usable as a VALARM trigger (e.g. "-P1D"). It is empty when reminders are disabled.
func (s Settings) ReminderTrigger() string {
	if !s.ReminderEnabled {
		return ""
	}

	val := s.ReminderValue
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if s.ReminderDirection != DirAfter {
		sign = ISONegativePrefix
	}

	switch s.ReminderUnit {
	case UnitHours:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}

// DefaultSettingsPath returns the settings file location in the user config dir.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// DefaultDatabasePath returns the database location in the user config dir.
func DefaultDatabasePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, DatabaseFileName), nil
}

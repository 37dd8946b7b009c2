package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "festival_crew_config.yaml"

// Deadline is a named date the daily notification scan reminds people about.
type Deadline struct {
	Name string `yaml:"name" validate:"required"`
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
	// Audience is "volunteers" or "organizers".
	Audience string `yaml:"audience" validate:"required,oneof=volunteers organizers"`
	// LeadDays is how many days before the date reminders start going out.
	LeadDays int `yaml:"leadDays,omitempty" validate:"omitempty,min=1"`
}

// SchedulerConfig tunes the notification scheduler's cadences, scan windows
// and cooldowns. Interval fields are minutes or hours rather than duration
// strings.
type SchedulerConfig struct {
	HourlyIntervalMinutes    int `yaml:"hourlyIntervalMinutes,omitempty" validate:"omitempty,min=1"`
	ImmediateIntervalMinutes int `yaml:"immediateIntervalMinutes,omitempty" validate:"omitempty,min=1"`
	DailyHour                int `yaml:"dailyHour" validate:"min=0,max=23"`

	ReminderLeadMinutes   int     `yaml:"reminderLeadMinutes,omitempty" validate:"omitempty,min=5"`
	UnderfillThreshold    float64 `yaml:"underfillThreshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	UnderfillHorizonDays  int     `yaml:"underfillHorizonDays,omitempty" validate:"omitempty,min=1"`
	ZeroSignupHorizonDays int     `yaml:"zeroSignupHorizonDays,omitempty" validate:"omitempty,min=1"`
	PendingStalenessHours int     `yaml:"pendingStalenessHours,omitempty" validate:"omitempty,min=1"`
	AlertCountThreshold   int     `yaml:"alertCountThreshold,omitempty" validate:"omitempty,min=1"`
	QuotaReminderLeadDays int     `yaml:"quotaReminderLeadDays,omitempty" validate:"omitempty,min=1"`
	QuotaMinFraction      float64 `yaml:"quotaMinFraction,omitempty" validate:"omitempty,gt=0,lte=1"`

	VolunteerCooldownHours int `yaml:"volunteerCooldownHours,omitempty" validate:"omitempty,min=1"`
	OrganizerCooldownHours int `yaml:"organizerCooldownHours,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL       string          `yaml:"databaseURL" validate:"required"`
	EventID           string          `yaml:"eventID" validate:"required"`
	EventStartDate    string          `yaml:"eventStartDate" validate:"required,datetime=2006-01-02"`
	OrganizerEmails   []string        `yaml:"organizerEmails" validate:"required,min=1,dive,email"`
	GmailSender       string          `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	QuotaCeilingHours float64         `yaml:"quotaCeilingHours,omitempty" validate:"omitempty,gt=0"`
	Scheduler         SchedulerConfig `yaml:"scheduler,omitempty"`
	Deadlines         []Deadline      `yaml:"deadlines,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from festival_crew_config.yaml.
// It looks for the config file in the current directory first, then in the
// user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.QuotaCeilingHours == 0 {
		c.QuotaCeilingHours = 9.0
	}

	s := &c.Scheduler
	if s.HourlyIntervalMinutes == 0 {
		s.HourlyIntervalMinutes = 60
	}
	if s.ImmediateIntervalMinutes == 0 {
		s.ImmediateIntervalMinutes = 5
	}
	if s.ReminderLeadMinutes == 0 {
		s.ReminderLeadMinutes = 60
	}
	if s.UnderfillThreshold == 0 {
		s.UnderfillThreshold = 0.5
	}
	if s.UnderfillHorizonDays == 0 {
		s.UnderfillHorizonDays = 3
	}
	if s.ZeroSignupHorizonDays == 0 {
		s.ZeroSignupHorizonDays = 2
	}
	if s.PendingStalenessHours == 0 {
		s.PendingStalenessHours = 48
	}
	if s.AlertCountThreshold == 0 {
		s.AlertCountThreshold = 3
	}
	if s.QuotaReminderLeadDays == 0 {
		s.QuotaReminderLeadDays = 7
	}
	if s.QuotaMinFraction == 0 {
		s.QuotaMinFraction = 0.5
	}
	if s.VolunteerCooldownHours == 0 {
		s.VolunteerCooldownHours = 24
	}
	if s.OrganizerCooldownHours == 0 {
		s.OrganizerCooldownHours = 4
	}

	for i := range c.Deadlines {
		if c.Deadlines[i].LeadDays == 0 {
			c.Deadlines[i].LeadDays = 3
		}
	}
}

// HourlyInterval returns the hourly cadence as a duration.
func (s SchedulerConfig) HourlyInterval() time.Duration {
	return time.Duration(s.HourlyIntervalMinutes) * time.Minute
}

// ImmediateInterval returns the immediate cadence as a duration.
func (s SchedulerConfig) ImmediateInterval() time.Duration {
	return time.Duration(s.ImmediateIntervalMinutes) * time.Minute
}

// VolunteerCooldown returns the per-volunteer notification cooldown.
func (s SchedulerConfig) VolunteerCooldown() time.Duration {
	return time.Duration(s.VolunteerCooldownHours) * time.Hour
}

// OrganizerCooldown returns the organizer alert cooldown.
func (s SchedulerConfig) OrganizerCooldown() time.Duration {
	return time.Duration(s.OrganizerCooldownHours) * time.Hour
}

// findConfigFile searches for the config file in the current directory and
// home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}

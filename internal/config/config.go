package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/username/calgrid/internal/calendar"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents grid and selection configuration
type CalendarConfig struct {
	WeekStart       string `mapstructure:"week_start"`   // "system", "sunday" or "monday"
	DisplayMode     string `mapstructure:"display_mode"` // "month" or "week"
	Timezone        string `mapstructure:"timezone"`     // IANA name, empty = local
	AutoSelectToday bool   `mapstructure:"auto_select_today"`
	AllowsSelection bool   `mapstructure:"allows_selection"`
}

// HolidaysConfig represents holiday lookup configuration
type HolidaysConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Source  string `mapstructure:"source"` // "nager", "ics" or "file"
	BaseURL string `mapstructure:"base_url"`
	ICSURL  string `mapstructure:"ics_url"` // may contain {year} and {region}
	File    string `mapstructure:"file"`    // YAML holidays; fallback for remote sources
	Region  string `mapstructure:"region"`  // empty = locale region

	Cache     string `mapstructure:"cache"` // "bolt" or "memory"
	CachePath string `mapstructure:"cache_path"`
	Refresh   string `mapstructure:"refresh"` // cron spec, empty disables
}

// LogConfig represents log output configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.week_start", "system")
	v.SetDefault("calendar.display_mode", "month")
	v.SetDefault("calendar.timezone", "")
	v.SetDefault("calendar.auto_select_today", true)
	v.SetDefault("calendar.allows_selection", true)

	v.SetDefault("holidays.enabled", true)
	v.SetDefault("holidays.source", "nager")
	v.SetDefault("holidays.base_url", "https://date.nager.at")
	v.SetDefault("holidays.ics_url", "")
	v.SetDefault("holidays.file", "")
	v.SetDefault("holidays.region", "")
	v.SetDefault("holidays.cache", "bolt")
	v.SetDefault("holidays.cache_path", "$HOME/.calgrid/holidays.db")
	v.SetDefault("holidays.refresh", "0 */6 * * *")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
}

// Load loads configuration from file. An empty configPath searches the
// default locations and falls back to defaults when no file is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.calgrid")
		v.AddConfigPath("/etc/calgrid")
	}

	// CALGRID_HOLIDAYS_REGION overrides holidays.region
	v.SetEnvPrefix("calgrid")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := calendar.ParseWeekStart(c.Calendar.WeekStart); err != nil {
		return fmt.Errorf("calendar.week_start: %w", err)
	}
	if _, err := calendar.ParseDisplayMode(c.Calendar.DisplayMode); err != nil {
		return fmt.Errorf("calendar.display_mode: %w", err)
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	if !c.Holidays.Enabled {
		return nil
	}

	switch c.Holidays.Source {
	case "nager":
		if c.Holidays.BaseURL == "" {
			return fmt.Errorf("holidays.base_url is required for nager source")
		}
	case "ics":
		if c.Holidays.ICSURL == "" {
			return fmt.Errorf("holidays.ics_url is required for ics source")
		}
	case "file":
		if c.Holidays.File == "" {
			return fmt.Errorf("holidays.file is required for file source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'nager', 'ics' or 'file', got '%s'", c.Holidays.Source)
	}

	switch c.Holidays.Cache {
	case "bolt":
		if c.Holidays.CachePath == "" {
			return fmt.Errorf("holidays.cache_path is required for bolt cache")
		}
	case "memory":
	default:
		return fmt.Errorf("holidays.cache must be 'bolt' or 'memory', got '%s'", c.Holidays.Cache)
	}

	if c.Holidays.Refresh != "" {
		if _, err := cron.ParseStandard(c.Holidays.Refresh); err != nil {
			return fmt.Errorf("holidays.refresh: %w", err)
		}
	}

	return nil
}

// GetWeekStart returns the parsed week start, WeekStartSystem on error
func (c *CalendarConfig) GetWeekStart() calendar.WeekStart {
	ws, _ := calendar.ParseWeekStart(c.WeekStart)
	return ws
}

// GetDisplayMode returns the parsed display mode, ModeMonth on error
func (c *CalendarConfig) GetDisplayMode() calendar.DisplayMode {
	mode, _ := calendar.ParseDisplayMode(c.DisplayMode)
	return mode
}

// GetLocation returns the configured time zone
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ExpandEnvVars expands environment variables in config paths
func (c *Config) ExpandEnvVars() {
	c.Holidays.CachePath = expandPath(c.Holidays.CachePath)
	c.Holidays.File = expandPath(c.Holidays.File)
	c.Log.File = expandPath(c.Log.File)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}

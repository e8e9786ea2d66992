package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences
type Config struct {
	// Storage
	Storage string `yaml:"storage" json:"storage"`   // Backend: sqlite, file, memory
	DataDir string `yaml:"data_dir" json:"data_dir"` // Directory holding the store
	Encrypt bool   `yaml:"encrypt" json:"encrypt"`   // Encrypt stored values (passphrase from TASKMGR_PASSPHRASE or prompt)

	// Views
	DefaultSort   string `yaml:"default_sort" json:"default_sort"`     // createdAt, priority, dueDate, title
	UpcomingDays  int    `yaml:"upcoming_days" json:"upcoming_days"`   // Window for the upcoming list
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Pomodoro timer, in minutes
	Timer TimerConfig `yaml:"timer" json:"timer"`

	// Local HTTP API
	ServerAddr string `yaml:"server_addr" json:"server_addr"`
	APIToken   string `yaml:"api_token" json:"-"` // Bearer token required by the API when set

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// TimerConfig holds pomodoro durations
type TimerConfig struct {
	WorkMinutes       int `yaml:"work_minutes" json:"work_minutes"`
	ShortBreakMinutes int `yaml:"short_break_minutes" json:"short_break_minutes"`
	LongBreakMinutes  int `yaml:"long_break_minutes" json:"long_break_minutes"`
	LongBreakEvery    int `yaml:"long_break_every" json:"long_break_every"`
}

// Dir returns the application directory (~/.taskmgr or $TASKMGR_HOME)
func Dir() string {
	if dir := os.Getenv("TASKMGR_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskmgr"
	}
	return filepath.Join(home, ".taskmgr")
}

// Path returns the config file path
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()

	return &Config{
		Storage:       getEnv("TASKMGR_STORAGE", "sqlite"),
		DataDir:       getEnv("TASKMGR_DATA", dir),
		Encrypt:       getEnv("TASKMGR_ENCRYPT", "false") == "true",
		DefaultSort:   "createdAt",
		UpcomingDays:  7,
		ConfirmDelete: true,
		Timer: TimerConfig{
			WorkMinutes:       25,
			ShortBreakMinutes: 5,
			LongBreakMinutes:  15,
			LongBreakEvery:    4,
		},
		ServerAddr: getEnv("TASKMGR_ADDR", "127.0.0.1:7420"),
		APIToken:   os.Getenv("TASKMGR_API_TOKEN"),
		LogLevel:   getEnv("TASKMGR_LOG_LEVEL", "INFO"),
		LogFile:    getEnv("TASKMGR_LOG_FILE", filepath.Join(dir, "logs", "taskmgr.log")),
		LogConsole: getEnv("TASKMGR_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from Path(), falling back to defaults when absent
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads config from a specific file
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// Save saves config to Path()
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo saves config to a specific file
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Set updates a single setting by its yaml key
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "storage":
		c.Storage = value
	case "data_dir":
		c.DataDir = value
	case "encrypt":
		c.Encrypt, err = strconv.ParseBool(value)
	case "default_sort":
		c.DefaultSort = value
	case "upcoming_days":
		c.UpcomingDays, err = strconv.Atoi(value)
	case "confirm_delete":
		c.ConfirmDelete, err = strconv.ParseBool(value)
	case "server_addr":
		c.ServerAddr = value
	case "api_token":
		c.APIToken = value
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "log_console":
		c.LogConsole, err = strconv.ParseBool(value)
	case "timer.work_minutes":
		c.Timer.WorkMinutes, err = strconv.Atoi(value)
	case "timer.short_break_minutes":
		c.Timer.ShortBreakMinutes, err = strconv.Atoi(value)
	case "timer.long_break_minutes":
		c.Timer.LongBreakMinutes, err = strconv.Atoi(value)
	case "timer.long_break_every":
		c.Timer.LongBreakEvery, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	c.normalize()
	return nil
}

// normalize replaces nonsensical values with defaults
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.UpcomingDays < 0 {
		c.UpcomingDays = def.UpcomingDays
	}
	if c.Timer.WorkMinutes <= 0 {
		c.Timer.WorkMinutes = def.Timer.WorkMinutes
	}
	if c.Timer.ShortBreakMinutes <= 0 {
		c.Timer.ShortBreakMinutes = def.Timer.ShortBreakMinutes
	}
	if c.Timer.LongBreakMinutes <= 0 {
		c.Timer.LongBreakMinutes = def.Timer.LongBreakMinutes
	}
	if c.Timer.LongBreakEvery <= 0 {
		c.Timer.LongBreakEvery = def.Timer.LongBreakEvery
	}
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/lottostat/internal/models"
	"github.com/rewired-gh/lottostat/internal/wheel"
)

// Config represents the complete application configuration
type Config struct {
	Games    []GameConfig   `mapstructure:"games"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Wheel    WheelConfig    `mapstructure:"wheel"`
	Report   ReportConfig   `mapstructure:"report"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GameConfig describes one game and the file holding its draw history
type GameConfig struct {
	Name           string   `mapstructure:"name"`
	MaxNumber      int      `mapstructure:"max_number"`
	DoublePlay     bool     `mapstructure:"double_play"`
	File           string   `mapstructure:"file"`
	SpecialColumns []string `mapstructure:"special_columns"`
}

// AnalysisConfig holds the query engine settings
type AnalysisConfig struct {
	ComboSizes    []int `mapstructure:"combo_sizes"`
	TopK          int   `mapstructure:"top_k"`
	HotWindow     int   `mapstructure:"hot_window"`
	ColdThreshold int   `mapstructure:"cold_threshold"`
	NewestFirst   bool  `mapstructure:"newest_first"`
}

// WheelConfig holds the ticket wheel pattern table
type WheelConfig struct {
	PickCount int     `mapstructure:"pick_count"`
	Patterns  [][]int `mapstructure:"patterns"` // 1-based positions into the picks; empty uses the built-in table
}

// ReportConfig holds output settings
type ReportConfig struct {
	ChartPath    string `mapstructure:"chart_path"`
	ExportPath   string `mapstructure:"export_path"`
	ExportFormat string `mapstructure:"export_format"`
}

// LoaderConfig holds history loading settings
type LoaderConfig struct {
	Watch          bool          `mapstructure:"watch"`
	Debounce       time.Duration `mapstructure:"debounce"`
	Timeout        time.Duration `mapstructure:"timeout"` // Download timeout for http(s) game files
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// TelegramConfig holds Telegram report delivery configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override, e.g. LOTTOSTAT_TELEGRAM_BOT_TOKEN
	v.SetEnvPrefix("LOTTOSTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Analysis defaults
	v.SetDefault("analysis.combo_sizes", []int{2, 3, 4, 5})
	v.SetDefault("analysis.top_k", 10)
	v.SetDefault("analysis.hot_window", 5)
	v.SetDefault("analysis.cold_threshold", 3)
	v.SetDefault("analysis.newest_first", true)

	// Wheel defaults
	v.SetDefault("wheel.pick_count", 10)

	// Report defaults
	v.SetDefault("report.export_format", "csv")

	// Loader defaults
	v.SetDefault("loader.watch", false)
	v.SetDefault("loader.debounce", "500ms")
	v.SetDefault("loader.timeout", "30s")
	v.SetDefault("loader.max_retries", 3)
	v.SetDefault("loader.retry_delay_base", "1s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate games
	if len(c.Games) == 0 {
		return fmt.Errorf("games must contain at least one game")
	}
	names := make(map[string]bool, len(c.Games))
	for i, g := range c.Games {
		if g.Name == "" {
			return fmt.Errorf("games[%d].name is required", i)
		}
		if names[g.Name] {
			return fmt.Errorf("games[%d].name %q is duplicated", i, g.Name)
		}
		names[g.Name] = true
		if g.MaxNumber < 5 {
			return fmt.Errorf("games[%d].max_number must be at least 5", i)
		}
		if g.File == "" {
			return fmt.Errorf("games[%d].file is required", i)
		}
	}

	// Validate Analysis config
	if len(c.Analysis.ComboSizes) == 0 {
		return fmt.Errorf("analysis.combo_sizes must contain at least one size")
	}
	for _, k := range c.Analysis.ComboSizes {
		if k < 2 || k > 5 {
			return fmt.Errorf("analysis.combo_sizes must be between 2 and 5, got %d", k)
		}
	}
	if c.Analysis.TopK < 1 {
		return fmt.Errorf("analysis.top_k must be at least 1")
	}
	if c.Analysis.HotWindow < 1 {
		return fmt.Errorf("analysis.hot_window must be at least 1")
	}
	if c.Analysis.ColdThreshold < 0 {
		return fmt.Errorf("analysis.cold_threshold must not be negative")
	}

	// Validate Wheel config
	if c.Wheel.PickCount < 1 {
		return fmt.Errorf("wheel.pick_count must be at least 1")
	}
	if len(c.Wheel.Patterns) == 0 && c.Wheel.PickCount != wheel.DefaultPickCount {
		return fmt.Errorf("wheel.patterns are required when wheel.pick_count is not %d", wheel.DefaultPickCount)
	}
	if err := c.WheelTable().Validate(); err != nil {
		return fmt.Errorf("wheel.patterns: %w", err)
	}

	// Validate Report config
	validFormats := map[string]bool{"csv": true, "json": true}
	if !validFormats[c.Report.ExportFormat] {
		return fmt.Errorf("report.export_format must be one of: csv, json")
	}

	// Validate Loader config
	if c.Loader.Watch && c.Loader.Debounce <= 0 {
		return fmt.Errorf("loader.debounce must be positive when watch is enabled")
	}
	if c.Loader.Timeout <= 0 {
		return fmt.Errorf("loader.timeout must be positive")
	}
	if c.Loader.MaxRetries < 1 {
		return fmt.Errorf("loader.max_retries must be at least 1")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Game returns the configuration of the named game
func (c *Config) Game(name string) (GameConfig, bool) {
	for _, g := range c.Games {
		if g.Name == name {
			return g, true
		}
	}
	return GameConfig{}, false
}

// Model converts the game configuration into the domain description
func (g GameConfig) Model() models.Game {
	return models.Game{
		Name:           g.Name,
		MaxNumber:      g.MaxNumber,
		DoublePlay:     g.DoublePlay,
		SpecialColumns: g.SpecialColumns,
	}
}

// HistoryOrder returns the draw order configured for loaded histories
func (c *Config) HistoryOrder() models.Order {
	if c.Analysis.NewestFirst {
		return models.NewestFirst
	}
	return models.OldestFirst
}

// WheelTable returns the configured wheel table, or the built-in one when no
// patterns are configured
func (c *Config) WheelTable() wheel.Table {
	if len(c.Wheel.Patterns) == 0 {
		return wheel.DefaultTable()
	}
	return wheel.Table{PickCount: c.Wheel.PickCount, Patterns: c.Wheel.Patterns}
}

// GetAnalysisConfig returns the Analysis configuration
func (c *Config) GetAnalysisConfig() AnalysisConfig {
	return c.Analysis
}

// GetTelegramConfig returns the Telegram configuration
func (c *Config) GetTelegramConfig() TelegramConfig {
	return c.Telegram
}

// GetLoggingConfig returns the Logging configuration
func (c *Config) GetLoggingConfig() LoggingConfig {
	return c.Logging
}

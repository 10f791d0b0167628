package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines daemon configuration.
type Config struct {
	Mode      string          `yaml:"mode"` // "daemon" or "mcp"
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Feed      FeedConfig      `yaml:"feed"`
	Hydration HydrationConfig `yaml:"hydration"`
	Reasoner  ReasonerConfig  `yaml:"reasoner"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig configures the activity feed listener.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// HydrationConfig carries ledger defaults. Window hours use a 24h clock.
type HydrationConfig struct {
	DefaultGoalMl   int `yaml:"default_goal_ml"`
	WindowStartHour int `yaml:"window_start_hour"`
	WindowEndHour   int `yaml:"window_end_hour"`
}

// ReasonerConfig selects and tunes the reasoning backend.
type ReasonerConfig struct {
	Backend     string        `yaml:"backend"` // "llama" or "genai"
	LlamaURL    string        `yaml:"llama_url"`
	GenAIModel  string        `yaml:"genai_model"`
	GenAIAPIKey string        `yaml:"genai_api_key"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float32       `yaml:"temperature"`
	TopP        float32       `yaml:"top_p"`
}

// SchedulerConfig tunes the periodic control loop.
type SchedulerConfig struct {
	Interval         time.Duration `yaml:"interval"`
	ActivityCooldown time.Duration `yaml:"activity_cooldown"`
	ActivityNudges   bool          `yaml:"activity_nudges"`
	SpoolPath        string        `yaml:"spool_path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Mode: "daemon",
		DB: DBConfig{
			Path: "odyssey.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Feed: FeedConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9901",
		},
		Hydration: HydrationConfig{
			DefaultGoalMl:   2000,
			WindowStartHour: 8,
			WindowEndHour:   22,
		},
		Reasoner: ReasonerConfig{
			Backend:     "llama",
			LlamaURL:    "http://127.0.0.1:8085",
			GenAIModel:  "gemini-2.0-flash",
			Timeout:     20 * time.Second,
			MaxTokens:   256,
			Temperature: 0.7,
			TopP:        0.9,
		},
		Scheduler: SchedulerConfig{
			Interval:         60 * time.Second,
			ActivityCooldown: 10 * time.Minute,
			ActivityNudges:   false,
		},
	}

	if path := os.Getenv("ODYSSEY_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if mode := os.Getenv("ODYSSEY_MODE"); mode != "" {
		cfg.Mode = mode
	}
	if dbPath := os.Getenv("ODYSSEY_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ODYSSEY_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if addr := os.Getenv("ODYSSEY_FEED_ADDR"); addr != "" {
		cfg.Feed.Enabled = true
		cfg.Feed.Addr = addr
	}
	if backend := os.Getenv("ODYSSEY_REASONER_BACKEND"); backend != "" {
		cfg.Reasoner.Backend = backend
	}
	if url := os.Getenv("ODYSSEY_LLAMA_URL"); url != "" {
		cfg.Reasoner.LlamaURL = url
	}
	if key := os.Getenv("ODYSSEY_GENAI_API_KEY"); key != "" {
		cfg.Reasoner.GenAIAPIKey = key
	}
	if model := os.Getenv("ODYSSEY_GENAI_MODEL"); model != "" {
		cfg.Reasoner.GenAIModel = model
	}
	if goalStr := os.Getenv("ODYSSEY_DAILY_GOAL_ML"); goalStr != "" {
		goal, err := strconv.Atoi(goalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ODYSSEY_DAILY_GOAL_ML: %w", err)
		}
		cfg.Hydration.DefaultGoalMl = goal
	}
	if intervalStr := os.Getenv("ODYSSEY_TICK_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ODYSSEY_TICK_INTERVAL: %w", err)
		}
		cfg.Scheduler.Interval = interval
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Mode != "daemon" && c.Mode != "mcp" {
		return fmt.Errorf("invalid mode %q (want daemon or mcp)", c.Mode)
	}
	if c.Hydration.DefaultGoalMl <= 0 {
		return fmt.Errorf("default goal must be positive, got %d", c.Hydration.DefaultGoalMl)
	}
	h := c.Hydration
	if h.WindowStartHour < 0 || h.WindowStartHour > 23 || h.WindowEndHour < 0 || h.WindowEndHour > 23 {
		return fmt.Errorf("window hours out of range: %d-%d", h.WindowStartHour, h.WindowEndHour)
	}
	if h.WindowStartHour >= h.WindowEndHour {
		return fmt.Errorf("window start %d must precede end %d", h.WindowStartHour, h.WindowEndHour)
	}
	switch c.Reasoner.Backend {
	case "llama", "genai":
	default:
		return fmt.Errorf("unknown reasoner backend %q", c.Reasoner.Backend)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

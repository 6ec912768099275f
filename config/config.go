package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`

	DBDriver string `mapstructure:"db_driver"`
	DBUrl    string `mapstructure:"db_url"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	BotToken       string `mapstructure:"bot_token"`
	MemoryBotToken string `mapstructure:"memory_bot_token"`
	WebAppURL      string `mapstructure:"webapp_url"`

	HTTPAddr    string `mapstructure:"http_addr"`
	MetricsAddr string `mapstructure:"metrics_addr"`

	DedupTTL       time.Duration `mapstructure:"dedup_ttl"`
	InitDataMaxAge time.Duration `mapstructure:"init_data_max_age"`
}

var keys = []string{
	"environment", "log_level", "log_file",
	"db_driver", "db_url",
	"redis_addr", "redis_password",
	"bot_token", "memory_bot_token", "webapp_url",
	"http_addr", "metrics_addr",
	"dedup_ttl", "init_data_max_age",
}

// LoadConfig reads envFile (if present) into the process environment and then
// resolves every setting from the environment with defaults applied.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Println("No .env file found. Using environment variables.")
		}
	}

	v := viper.New()
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_url", "leaderboard.db")
	v.SetDefault("webapp_url", "https://your-webapp-url.com")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("dedup_ttl", 24*time.Hour)
	v.SetDefault("init_data_max_age", 24*time.Hour)

	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.WebAppURL = strings.TrimRight(cfg.WebAppURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("db_driver must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DBUrl == "" {
		return errors.New("db_url is required")
	}
	if c.DedupTTL <= 0 {
		return errors.New("dedup_ttl must be positive")
	}
	if c.InitDataMaxAge <= 0 {
		return errors.New("init_data_max_age must be positive")
	}
	return nil
}

// TokenFor returns the Telegram token of the named bot.
func (c Config) TokenFor(game string) (string, error) {
	var token, env string
	switch game {
	case "minesweeper":
		token, env = c.BotToken, "BOT_TOKEN"
	case "memory":
		token, env = c.MemoryBotToken, "MEMORY_BOT_TOKEN"
	default:
		return "", fmt.Errorf("unknown game %q", game)
	}
	if token == "" {
		return "", fmt.Errorf("%s is required to run the %s bot", env, game)
	}
	return token, nil
}

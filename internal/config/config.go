package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Values come from an optional YAML
// file, with environment variables taking precedence for deployment
// overrides.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Game struct {
		RoundSeconds      int `yaml:"round_seconds"`
		StartDelaySeconds int `yaml:"start_delay_seconds"`
		EndedGraceSeconds int `yaml:"ended_grace_seconds"`
		FreeGamesPerDay   int `yaml:"free_games_per_day"`
	} `yaml:"game"`

	Questions struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Language       string `yaml:"language"`
	} `yaml:"questions"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
}

// Load reads the YAML config at path (missing file is fine, defaults apply)
// and layers environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Questions.URL = getEnv("QUESTION_SERVICE_URL", cfg.Questions.URL)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Game.FreeGamesPerDay = getEnvAsInt("FREE_GAMES_PER_DAY", cfg.Game.FreeGamesPerDay)

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Game.RoundSeconds = 30
	cfg.Game.StartDelaySeconds = 3
	cfg.Game.EndedGraceSeconds = 60
	cfg.Game.FreeGamesPerDay = 5
	cfg.Questions.TimeoutSeconds = 5
	cfg.Questions.Language = "en"
	return cfg
}

// RoundDuration is the per-question answer window.
func (c *Config) RoundDuration() time.Duration {
	return time.Duration(c.Game.RoundSeconds) * time.Second
}

// StartDelay is the pause between match formation and the first question.
func (c *Config) StartDelay() time.Duration {
	return time.Duration(c.Game.StartDelaySeconds) * time.Second
}

// EndedGrace is how long an ended session stays resolvable.
func (c *Config) EndedGrace() time.Duration {
	return time.Duration(c.Game.EndedGraceSeconds) * time.Second
}

// QuestionTimeout bounds the external question fetch.
func (c *Config) QuestionTimeout() time.Duration {
	return time.Duration(c.Questions.TimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

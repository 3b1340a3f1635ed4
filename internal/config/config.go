package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the whole server configuration, read from the environment.
type Config struct {
	Addr            string   `envconfig:"ADDR" default:":8080"`
	DatabaseDSN     string   `envconfig:"DB_DSN" required:"true"`
	RedisAddr       string   `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	GeminiAPIKey    string   `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string   `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	TriggerKeywords []string `envconfig:"TRIGGER_KEYWORDS" default:"help,support"`
	HistoryLimit    int      `envconfig:"HISTORY_LIMIT" default:"50"`
	LogLevel        string   `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

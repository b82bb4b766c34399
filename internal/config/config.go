package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppEnv              string
	Port                string
	RedisURL            string
	WebhookToken        string
	SlackAPIToken       string
	SlackAPIURL         string
	JserviceURL         string
	BotUsername         string
	BotIcon             string
	SecondsToAnswer     int
	SimilarityThreshold float64
	ChannelBlacklist    []string
	AdminUsers          []string
	LogLevel            string
	LogFormat           string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		RedisURL:         getEnv("REDIS_URL", ""),
		WebhookToken:     getEnv("OUTGOING_WEBHOOK_TOKEN", ""),
		SlackAPIToken:    getEnv("API_TOKEN", ""),
		SlackAPIURL:      getEnv("SLACK_API_URL", "https://slack.com"),
		JserviceURL:      getEnv("JSERVICE_URL", "http://jservice.io"),
		BotUsername:      getEnv("BOT_USERNAME", "trebekbot"),
		BotIcon:          getEnv("BOT_ICON", ":jeopardy:"),
		ChannelBlacklist: splitList(getEnv("CHANNEL_BLACKLIST", "")),
		AdminUsers:       splitList(getEnv("ADMIN_USERS", "")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}
	if cfg.WebhookToken == "" {
		return nil, fmt.Errorf("OUTGOING_WEBHOOK_TOKEN is required")
	}

	seconds, err := getEnvInt("SECONDS_TO_ANSWER", 30)
	if err != nil {
		return nil, err
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("SECONDS_TO_ANSWER must be positive, got %d", seconds)
	}
	cfg.SecondsToAnswer = seconds

	threshold, err := getEnvFloat("SIMILARITY_THRESHOLD", 0.5)
	if err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD must be between 0 and 1, got %g", threshold)
	}
	cfg.SimilarityThreshold = threshold

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

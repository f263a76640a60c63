package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	AI      AIConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RoundDuration  time.Duration
	RevealPause    time.Duration
	IdleTimeout    time.Duration
	RoomCodeLength int
}

// AIConfig holds configuration for the word-suggestion service
type AIConfig struct {
	BaseURL string
	Timeout time.Duration
	Beta    float64
	Gamma   float64
	TopK    int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			RoundDuration:  time.Duration(getEnvInt("ROUND_SECONDS", 30)) * time.Second,
			RevealPause:    time.Duration(getEnvInt("REVEAL_PAUSE_SECONDS", 3)) * time.Second,
			IdleTimeout:    time.Duration(getEnvInt("INACTIVITY_SECONDS", 120)) * time.Second,
			RoomCodeLength: getEnvInt("ROOM_CODE_LENGTH", 6),
		},
		AI: AIConfig{
			BaseURL: getEnv("AI_BASE_URL", "http://localhost:8000"),
			Timeout: time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 6)) * time.Second,
			Beta:    getEnvFloat("AI_BETA", 0.5),
			Gamma:   getEnvFloat("AI_GAMMA", 0.5),
			TopK:    getEnvInt("AI_TOP_K", 40),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Package config provides configuration for the docchat server.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Completion provider
	LLMAPIKey   string
	LLMBaseURL  string
	ModelName   string
	Temperature float64
	LLMTimeout  time.Duration

	// Context windowing
	MaxContextLength int
	ContextMessages  int

	// Uploads
	UploadMaxSize     int64
	AllowedExtensions []string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:       getEnv("DATABASE_URL", "file:docchat.db?cache=shared&mode=rwc"),
		LLMAPIKey:         getEnv("LLM_API_KEY", ""),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://integrate.api.nvidia.com/v1"),
		ModelName:         getEnv("MODEL_NAME", "nvidia/llama-3.1-nemotron-70b-instruct"),
		Temperature:       getEnvFloat("TEMPERATURE", 0.5),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		MaxContextLength:  getEnvInt("MAX_CONTEXT_LENGTH", 3000),
		ContextMessages:   getEnvInt("CONTEXT_MESSAGES", 10),
		UploadMaxSize:     getEnvInt64("UPLOAD_MAX_SIZE", 10*1024*1024),
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"txt", "pdf"}),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// Validate checks that required settings are present. The completion client
// cannot be initialized without an API key.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY environment variable is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

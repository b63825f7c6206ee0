package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
// A missing .env file is fine; real environment variables win either way.
type Config struct {
	TelegramAPIID       string
	TelegramAPIHash     string
	TelegramPhoneNumber string
	TelegramBotToken    string

	GeminiAPIKey     string
	GroqAPIKey       string
	HuggingfaceToken string

	DatabaseURL  string
	PythonAPIURL string
	OwnerOpenID  string
	Port         string
}

const (
	DefaultDatabaseFile = "telegram_admin.db"
	DefaultPythonAPIURL = "http://localhost:8000"
	DefaultPort         = "8081"
)

func LoadFromEnv() *Config {
	// Best effort; settings saved through the setup endpoints land here.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramAPIID:       os.Getenv("TELEGRAM_API_ID"),
		TelegramAPIHash:     os.Getenv("TELEGRAM_API_HASH"),
		TelegramPhoneNumber: os.Getenv("TELEGRAM_PHONE_NUMBER"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		HuggingfaceToken:    os.Getenv("HUGGINGFACE_TOKEN"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		PythonAPIURL:        os.Getenv("PYTHON_API_URL"),
		OwnerOpenID:         os.Getenv("OWNER_OPEN_ID"),
		Port:                os.Getenv("PORT"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseFile
	}
	if cfg.PythonAPIURL == "" {
		cfg.PythonAPIURL = DefaultPythonAPIURL
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}

	return cfg
}

// ValidationResult mirrors what the setup UI renders: one flag per
// required/optional field plus the "at least one AI key" rule.
type ValidationResult struct {
	Required map[string]bool `json:"required"`
	Optional map[string]bool `json:"optional"`
	HasAIKey bool            `json:"has_ai_key"`
	IsValid  bool            `json:"is_valid"`
}

func (c *Config) Validate() ValidationResult {
	required := map[string]bool{
		"TELEGRAM_API_ID":       c.TelegramAPIID != "",
		"TELEGRAM_API_HASH":     c.TelegramAPIHash != "",
		"TELEGRAM_PHONE_NUMBER": c.TelegramPhoneNumber != "",
	}
	optional := map[string]bool{
		"TELEGRAM_BOT_TOKEN": c.TelegramBotToken != "",
		"GEMINI_API_KEY":     c.GeminiAPIKey != "",
		"GROQ_API_KEY":       c.GroqAPIKey != "",
		"HUGGINGFACE_TOKEN":  c.HuggingfaceToken != "",
	}

	hasAIKey := c.GeminiAPIKey != "" || c.GroqAPIKey != ""

	isValid := hasAIKey
	for _, ok := range required {
		if !ok {
			isValid = false
		}
	}

	return ValidationResult{
		Required: required,
		Optional: optional,
		HasAIKey: hasAIKey,
		IsValid:  isValid,
	}
}

// ConfigError reports a rejected configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

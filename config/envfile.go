package config

import (
	"github.com/joho/godotenv"
)

// EnvFile reads and writes the .env file behind the setup endpoints.
type EnvFile struct {
	Path string
}

func NewEnvFile(path string) *EnvFile {
	if path == "" {
		path = ".env"
	}
	return &EnvFile{Path: path}
}

// Read returns the current key/value set. A missing file is an empty set.
func (e *EnvFile) Read() map[string]string {
	values, err := godotenv.Read(e.Path)
	if err != nil {
		return map[string]string{}
	}
	return values
}

// Save persists a validated configuration. Optional fields that are
// empty are left out so a later save cannot blank them by accident.
func (e *EnvFile) Save(cfg *Config) error {
	values := e.Read()

	values["TELEGRAM_API_ID"] = cfg.TelegramAPIID
	values["TELEGRAM_API_HASH"] = cfg.TelegramAPIHash
	values["TELEGRAM_PHONE_NUMBER"] = cfg.TelegramPhoneNumber

	if cfg.TelegramBotToken != "" {
		values["TELEGRAM_BOT_TOKEN"] = cfg.TelegramBotToken
	}
	if cfg.GeminiAPIKey != "" {
		values["GEMINI_API_KEY"] = cfg.GeminiAPIKey
	}
	if cfg.GroqAPIKey != "" {
		values["GROQ_API_KEY"] = cfg.GroqAPIKey
	}
	if cfg.HuggingfaceToken != "" {
		values["HUGGINGFACE_TOKEN"] = cfg.HuggingfaceToken
	}

	values["DATABASE_URL"] = cfg.DatabaseURL

	return godotenv.Write(values, e.Path)
}

// MaskSecret hides all but the edges of a stored credential so the
// setup UI can show that a value exists without leaking it.
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) > 8 {
		return value[:8] + "..." + value[len(value)-4:]
	}
	return "***"
}

package handlers

import (
	"encoding/json"
	"net/http"

	"telegram-admin/config"
	"telegram-admin/internal/models"
	"telegram-admin/internal/utils"
)

// ConfigHandler backs the setup wizard: inspect, validate and persist
// the environment configuration.
type ConfigHandler struct {
	envFile *config.EnvFile
}

func NewConfigHandler(envFile *config.EnvFile) *ConfigHandler {
	return &ConfigHandler{envFile: envFile}
}

// EnvConfigDTO mirrors the setup UI's field names.
type EnvConfigDTO struct {
	TelegramAPIID       string `json:"TELEGRAM_API_ID"`
	TelegramAPIHash     string `json:"TELEGRAM_API_HASH"`
	TelegramPhoneNumber string `json:"TELEGRAM_PHONE_NUMBER"`
	TelegramBotToken    string `json:"TELEGRAM_BOT_TOKEN"`
	GeminiAPIKey        string `json:"GEMINI_API_KEY"`
	GroqAPIKey          string `json:"GROQ_API_KEY"`
	HuggingfaceToken    string `json:"HUGGINGFACE_TOKEN"`
	DatabaseURL         string `json:"DATABASE_URL"`
}

func (d *EnvConfigDTO) toConfig() *config.Config {
	databaseURL := d.DatabaseURL
	if databaseURL == "" {
		databaseURL = config.DefaultDatabaseFile
	}
	return &config.Config{
		TelegramAPIID:       d.TelegramAPIID,
		TelegramAPIHash:     d.TelegramAPIHash,
		TelegramPhoneNumber: d.TelegramPhoneNumber,
		TelegramBotToken:    d.TelegramBotToken,
		GeminiAPIKey:        d.GeminiAPIKey,
		GroqAPIKey:          d.GroqAPIKey,
		HuggingfaceToken:    d.HuggingfaceToken,
		DatabaseURL:         databaseURL,
	}
}

func (h *ConfigHandler) stored() *config.Config {
	values := h.envFile.Read()
	dto := EnvConfigDTO{
		TelegramAPIID:       values["TELEGRAM_API_ID"],
		TelegramAPIHash:     values["TELEGRAM_API_HASH"],
		TelegramPhoneNumber: values["TELEGRAM_PHONE_NUMBER"],
		TelegramBotToken:    values["TELEGRAM_BOT_TOKEN"],
		GeminiAPIKey:        values["GEMINI_API_KEY"],
		GroqAPIKey:          values["GROQ_API_KEY"],
		HuggingfaceToken:    values["HUGGINGFACE_TOKEN"],
		DatabaseURL:         values["DATABASE_URL"],
	}
	return dto.toConfig()
}

// @Summary Current configuration
// @Description Stored configuration with secrets masked
// @Tags config
// @Produce json
// @Success 200 {object} handlers.EnvConfigDTO
// @Router /config [get]
func (h *ConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.stored()

	dto := EnvConfigDTO{
		TelegramAPIID:       cfg.TelegramAPIID,
		TelegramAPIHash:     config.MaskSecret(cfg.TelegramAPIHash),
		TelegramPhoneNumber: cfg.TelegramPhoneNumber,
		TelegramBotToken:    config.MaskSecret(cfg.TelegramBotToken),
		GeminiAPIKey:        config.MaskSecret(cfg.GeminiAPIKey),
		GroqAPIKey:          config.MaskSecret(cfg.GroqAPIKey),
		HuggingfaceToken:    config.MaskSecret(cfg.HuggingfaceToken),
		DatabaseURL:         cfg.DatabaseURL,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// @Summary Validate a configuration
// @Tags config
// @Accept json
// @Produce json
// @Param request body handlers.EnvConfigDTO true "Configuration"
// @Success 200 {object} config.ValidationResult
// @Router /config/validate [post]
func (h *ConfigHandler) ValidateConfig(w http.ResponseWriter, r *http.Request) {
	var dto EnvConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	result := dto.toConfig().Validate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// @Summary Save the configuration
// @Description Validates, then persists the set to the .env file
// @Tags config
// @Accept json
// @Produce json
// @Param request body handlers.EnvConfigDTO true "Configuration"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /config/save [post]
func (h *ConfigHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var dto EnvConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		models.RespondWithError(w, &models.ValidationError{Message: "invalid request body"})
		return
	}

	cfg := dto.toConfig()
	if !cfg.Validate().IsValid {
		models.RespondWithError(w, &models.ValidationError{
			Message: "Invalid configuration. Check required fields and AI API keys.",
		})
		return
	}

	if err := h.envFile.Save(cfg); err != nil {
		utils.LogError("Failed to save configuration: %v", err)
		models.RespondWithJSON(w, http.StatusInternalServerError,
			models.NewErrorResponse("Failed to save configuration"))
		return
	}

	models.RespondWithJSON(w, http.StatusOK,
		models.NewSuccessResponse("Configuration saved", map[string]string{"status": "saved"}))
}

// @Summary Setup status
// @Description Whether the stored configuration is complete
// @Tags config
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /config/status [get]
func (h *ConfigHandler) Status(w http.ResponseWriter, r *http.Request) {
	result := h.stored().Validate()

	data := map[string]interface{}{
		"configured": result.IsValid,
		"validation": result,
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("", data))
}

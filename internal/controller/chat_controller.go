package controller

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"Sator.eden/internal/models"
	"Sator.eden/internal/service"
	"Sator.eden/internal/utils"
)

// ChatController handles the assistant endpoints.
type ChatController struct {
	service *service.ChatService
	logger  *zap.Logger
}

// NewChatController creates a new ChatController.
func NewChatController(service *service.ChatService, logger *zap.Logger) *ChatController {
	return &ChatController{
		service: service,
		logger:  logger,
	}
}

// HandleChat answers POST /api/chat.
func (c *ChatController) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	result, err := c.service.Chat(r.Context(), req)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// HandleAudio answers POST /api/chat/audio with raw MP3 bytes.
func (c *ChatController) HandleAudio(w http.ResponseWriter, r *http.Request) {
	var req models.SpeechRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	audio, err := c.service.Speak(r.Context(), req.Text)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		c.logger.Debug("Client went away while receiving audio", zap.Error(err))
	}
}

// HandleModels answers GET /api/chat/models.
func (c *ChatController) HandleModels(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.ListModels(r.Context())
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

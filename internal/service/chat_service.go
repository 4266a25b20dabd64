package service

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"Sator.eden/internal/adapter"
	"Sator.eden/internal/models"
)

// LanguageModel generates replies and lists the models a key can reach.
type LanguageModel interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

// SpeechSynthesizer turns text into MP3 audio. A nil result means synthesis
// failed; the implementation logs why.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) []byte
}

const (
	audioNotConfigured = "Speech synthesis is not configured (ELEVENLABS_API_KEY missing)"
	audioFailed        = "Speech synthesis failed, see server logs for the cause"
)

// ChatService answers questions with the language model and optionally
// voices the reply.
type ChatService struct {
	model  LanguageModel
	speech SpeechSynthesizer
	logger *zap.Logger
}

// NewChatService creates a ChatService. model or speech may be nil when the
// matching credential is not configured.
func NewChatService(model LanguageModel, speech SpeechSynthesizer, logger *zap.Logger) *ChatService {
	return &ChatService{
		model:  model,
		speech: speech,
		logger: logger,
	}
}

// Chat validates the request, asks the model once and attaches audio when
// requested. Returned errors are models.APIError. Speech problems never fail
// the request; they are reported in AudioError.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResult, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, models.NewBadRequestError("Message is required")
	}
	if s.model == nil {
		return nil, models.NewConfigurationError("GEMINI_API_KEY is not configured in .env file")
	}

	prompt := BuildPrompt(req.Message, req.SensorData)
	reply, err := s.model.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Error("Gemini API error", zap.Error(err))
		return nil, models.NewUpstreamError("Gemini API failed: " + err.Error())
	}

	result := &models.ChatResult{Reply: reply}
	if !req.IncludeAudio {
		return result, nil
	}

	if s.speech == nil {
		result.AudioError = audioNotConfigured
		return result, nil
	}
	audio := s.speech.Synthesize(ctx, reply)
	if audio == nil {
		result.AudioError = audioFailed
		return result, nil
	}
	result.Audio = base64.StdEncoding.EncodeToString(audio)
	result.AudioFormat = adapter.AudioFormat
	return result, nil
}

// Speak synthesizes text on its own, for the audio endpoint.
func (s *ChatService) Speak(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewBadRequestError("Text is required")
	}
	if s.speech == nil {
		return nil, models.NewConfigurationError("ELEVENLABS_API_KEY is not configured in .env file").
			WithHint("Add ELEVENLABS_API_KEY to the server's .env file and restart it")
	}
	audio := s.speech.Synthesize(ctx, text)
	if audio == nil {
		return nil, models.NewUpstreamError("Failed to generate audio").
			WithHint("Check that the ElevenLabs API key is valid and has the text_to_speech permission")
	}
	return audio, nil
}

// ListModels returns the models reachable with the configured key.
func (s *ChatService) ListModels(ctx context.Context) (*models.ModelList, error) {
	if s.model == nil {
		return nil, models.NewConfigurationError("GEMINI_API_KEY is not configured in .env file")
	}
	found, err := s.model.ListModels(ctx)
	if err != nil {
		s.logger.Error("Error listing models", zap.Error(err))
		return nil, models.NewUpstreamError("Failed to list models: " + err.Error())
	}
	return &models.ModelList{Models: found}, nil
}

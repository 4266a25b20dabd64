package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"Sator.eden/internal/metrics"
)

const (
	// VoiceID is ElevenLabs' "Rachel" voice.
	VoiceID = "21m00Tcm4TlvDq8ikWAM"
	// SpeechModelID trades a little quality for latency.
	SpeechModelID = "eleven_turbo_v2"
	// AudioFormat names the codec of synthesized audio.
	AudioFormat = "mp3"

	chunkSize = 32 * 1024
	// errorBodyLimit caps how much of a failed response is read for diagnosis.
	errorBodyLimit = 4 * 1024
)

// SpeechFailure classifies why a synthesis produced no audio. It only feeds
// logs and metrics.
type SpeechFailure string

const (
	SpeechMissingCredential SpeechFailure = "missing_credential"
	SpeechPermissionDenied  SpeechFailure = "permission_denied"
	SpeechAuthFailed        SpeechFailure = "auth_failed"
	SpeechVoiceNotFound     SpeechFailure = "voice_not_found"
	SpeechUnknown           SpeechFailure = "unknown"
)

type speechRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// ElevenLabsClient streams text-to-speech audio from ElevenLabs.
type ElevenLabsClient struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
}

// NewElevenLabsClient creates a client; an empty apiKey makes every
// Synthesize call return nil without touching the network.
func NewElevenLabsClient(baseURL, apiKey string, logger *zap.Logger) *ElevenLabsClient {
	return &ElevenLabsClient{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		logger: logger,
	}
}

// Synthesize converts text to MP3 audio. Every failure is logged with its
// cause and reported as nil.
func (e *ElevenLabsClient) Synthesize(ctx context.Context, text string) []byte {
	if e.apiKey == "" {
		e.fail(SpeechMissingCredential, nil)
		return nil
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("xi-api-key", e.apiKey).
		SetHeader("Accept", "audio/mpeg").
		SetHeader("Content-Type", "application/json").
		SetPathParam("voiceID", VoiceID).
		SetBody(speechRequest{Text: text, ModelID: SpeechModelID}).
		Post("/v1/text-to-speech/{voiceID}/stream")
	if err != nil {
		metrics.ObserveUpstream("elevenlabs", metrics.OutcomeError)
		e.fail(ClassifySpeechFailure(0, err.Error()), err)
		return nil
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		metrics.ObserveUpstream("elevenlabs", metrics.OutcomeError)
		detail, _ := io.ReadAll(io.LimitReader(body, errorBodyLimit))
		cause := ClassifySpeechFailure(resp.StatusCode(), string(detail))
		e.fail(cause, fmt.Errorf("status %d: %s", resp.StatusCode(), bytes.TrimSpace(detail)))
		return nil
	}

	audio, err := AssembleChunks(body)
	if err != nil {
		metrics.ObserveUpstream("elevenlabs", metrics.OutcomeError)
		e.fail(SpeechUnknown, err)
		return nil
	}
	if len(audio) == 0 {
		metrics.ObserveUpstream("elevenlabs", metrics.OutcomeMalformed)
		e.fail(SpeechUnknown, fmt.Errorf("empty audio stream"))
		return nil
	}
	metrics.ObserveUpstream("elevenlabs", metrics.OutcomeSuccess)
	return audio
}

func (e *ElevenLabsClient) fail(cause SpeechFailure, err error) {
	metrics.SpeechFailuresTotal.WithLabelValues(string(cause)).Inc()
	fields := []zap.Field{zap.String("cause", string(cause)), zap.String("voice_id", VoiceID)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	switch cause {
	case SpeechMissingCredential:
		e.logger.Debug("Speech synthesis skipped, ELEVENLABS_API_KEY not set", fields...)
	case SpeechAuthFailed, SpeechPermissionDenied:
		e.logger.Error("Speech synthesis rejected, check the key's text-to-speech permission", fields...)
	case SpeechVoiceNotFound:
		e.logger.Error("Speech synthesis voice not found", fields...)
	default:
		e.logger.Error("Speech synthesis failed", fields...)
	}
}

// AssembleChunks reads r to the end and concatenates the chunks in the order
// they arrived.
func AssembleChunks(r io.Reader) ([]byte, error) {
	var audio bytes.Buffer
	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			audio.Write(chunk[:n])
		}
		if err == io.EOF {
			return audio.Bytes(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading audio stream: %w", err)
		}
	}
}

// ClassifySpeechFailure diagnoses a failed synthesis from the HTTP status (0
// when no response arrived) and the error or response text.
func ClassifySpeechFailure(status int, detail string) SpeechFailure {
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "missing_permissions"), status == http.StatusForbidden:
		return SpeechPermissionDenied
	case status == http.StatusUnauthorized, strings.Contains(lower, "unauthorized"), strings.Contains(lower, "invalid_api_key"):
		return SpeechAuthFailed
	case status == http.StatusNotFound, strings.Contains(lower, "voice_not_found"), strings.Contains(lower, "not found"):
		return SpeechVoiceNotFound
	default:
		return SpeechUnknown
	}
}

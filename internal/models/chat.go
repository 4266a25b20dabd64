package models

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message      string          `json:"message"`
	SensorData   *SensorSnapshot `json:"sensorData,omitempty"`
	IncludeAudio bool            `json:"includeAudio,omitempty"`
}

// ChatResult is the body returned by POST /api/chat. Audio and AudioError
// are never both set.
type ChatResult struct {
	Reply       string `json:"reply"`
	Audio       string `json:"audio,omitempty"` // base64
	AudioFormat string `json:"audioFormat,omitempty"`
	AudioError  string `json:"audioError,omitempty"`
}

// SpeechRequest is the body of POST /api/chat/audio.
type SpeechRequest struct {
	Text string `json:"text"`
}

// ModelInfo describes one language model the configured key can reach.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

type ModelList struct {
	Models []ModelInfo `json:"models"`
}

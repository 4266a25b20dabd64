package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"Sator.eden/internal/metrics"
	"Sator.eden/internal/models"
)

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type listModelsResponse struct {
	Models        []models.ModelInfo `json:"models"`
	NextPageToken string             `json:"nextPageToken"`
}

// geminiErrorEnvelope is the error body of the Generative Language API.
type geminiErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiClient calls the Gemini REST API with an API key.
type GeminiClient struct {
	client *resty.Client
	model  string
}

// NewGeminiClient creates a client for one model. It is built once at startup
// and shared by all requests.
func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-goog-api-key", apiKey).
		SetHeader("Content-Type", "application/json")
	return &GeminiClient{client: client, model: model}
}

// Model returns the model id used for generation.
func (g *GeminiClient) Model() string {
	return g.model
}

// GenerateContent sends prompt as a single user turn and returns the text of
// the first candidate. It is not retried.
func (g *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var result generateContentResponse
	var apiErr geminiErrorEnvelope

	resp, err := g.client.R().
		SetContext(ctx).
		SetPathParam("model", g.model).
		SetBody(generateContentRequest{
			Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		metrics.ObserveUpstream("gemini", metrics.OutcomeError)
		return "", fmt.Errorf("calling model: %w", err)
	}
	if !resp.IsSuccess() {
		metrics.ObserveUpstream("gemini", metrics.OutcomeError)
		return "", vendorError(resp, apiErr)
	}

	text := result.text()
	if text == "" {
		metrics.ObserveUpstream("gemini", metrics.OutcomeMalformed)
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", result.PromptFeedback.BlockReason)
		}
		return "", errors.New("model returned no text")
	}
	metrics.ObserveUpstream("gemini", metrics.OutcomeSuccess)
	return text, nil
}

// ListModels returns every model the API key can use.
func (g *GeminiClient) ListModels(ctx context.Context) ([]models.ModelInfo, error) {
	found := []models.ModelInfo{}
	pageToken := ""
	for {
		var page listModelsResponse
		var apiErr geminiErrorEnvelope
		req := g.client.R().
			SetContext(ctx).
			SetResult(&page).
			SetError(&apiErr)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}
		resp, err := req.Get("/v1beta/models")
		if err != nil {
			metrics.ObserveUpstream("gemini", metrics.OutcomeError)
			return nil, fmt.Errorf("listing models: %w", err)
		}
		if !resp.IsSuccess() {
			metrics.ObserveUpstream("gemini", metrics.OutcomeError)
			return nil, vendorError(resp, apiErr)
		}
		metrics.ObserveUpstream("gemini", metrics.OutcomeSuccess)

		found = append(found, page.Models...)
		if page.NextPageToken == "" {
			return found, nil
		}
		pageToken = page.NextPageToken
	}
}

func (r generateContentResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// vendorError keeps the vendor's own message when the body carried one.
func vendorError(resp *resty.Response, apiErr geminiErrorEnvelope) error {
	if apiErr.Error.Message != "" {
		return fmt.Errorf("%s (status %d)", apiErr.Error.Message, resp.StatusCode())
	}
	return fmt.Errorf("unexpected status %s", resp.Status())
}

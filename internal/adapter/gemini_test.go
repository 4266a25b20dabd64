package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "KEY" {
			t.Errorf("missing api key header")
		}
		var body generateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "How is the soil?" {
			t.Errorf("unexpected contents: %+v", body.Contents)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Soil looks "},{"text":"healthy."}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "KEY", "gemini-test")
	if client.Model() != "gemini-test" {
		t.Fatalf("Model() = %q", client.Model())
	}
	reply, err := client.GenerateContent(context.Background(), "How is the soil?")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if reply != "Soil looks healthy." {
		t.Fatalf("reply = %q", reply)
	}
}

func TestGenerateContentKeepsVendorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient(srv.URL, "bad", "gemini-test").GenerateContent(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("want vendor message in error, got %v", err)
	}
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	_, err := NewGeminiClient(srv.URL, "KEY", "gemini-test").GenerateContent(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("want block reason in error, got %v", err)
	}
}

func TestListModelsFollowsPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-1.5-flash","displayName":"Gemini 1.5 Flash","supportedGenerationMethods":["generateContent"]}],"nextPageToken":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-2.0-flash-exp"}]}`))
	}))
	defer srv.Close()

	found, err := NewGeminiClient(srv.URL, "KEY", "gemini-test").ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if len(found) != 2 || found[0].Name != "models/gemini-1.5-flash" || found[1].Name != "models/gemini-2.0-flash-exp" {
		t.Fatalf("unexpected models: %+v", found)
	}
}

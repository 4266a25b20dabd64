package adapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCameraSourceOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Mozilla/5.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=123456789000000000000987654321")
		w.Header().Set("X-Framerate", "25")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("--frame"))
	}))
	defer srv.Close()

	source := NewCameraSource(srv.URL + "/stream")
	if source.URL() != srv.URL+"/stream" {
		t.Fatalf("URL() = %q", source.URL())
	}
	stream, err := source.Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer stream.Body.Close()

	if stream.StatusCode != http.StatusOK || stream.Header.Get("X-Framerate") != "25" {
		t.Fatalf("unexpected stream %d %v", stream.StatusCode, stream.Header)
	}
	body, _ := io.ReadAll(stream.Body)
	if string(body) != "--frame" {
		t.Fatalf("body = %q", body)
	}
}

func TestCameraSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewCameraSource(url).Open(context.Background()); err == nil {
		t.Fatal("expected connection error")
	}
}

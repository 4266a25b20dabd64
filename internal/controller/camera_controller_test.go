package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"Sator.eden/internal/adapter"
)

type fakeCamera struct {
	stream *adapter.CameraStream
	err    error
	opened int
}

func (f *fakeCamera) Open(context.Context) (*adapter.CameraStream, error) {
	f.opened++
	return f.stream, f.err
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCameraNotConfigured(t *testing.T) {
	c := NewCameraController(nil, zap.NewNop())
	rec := httptest.NewRecorder()
	c.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/api/camera-stream", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if body := decodeError(t, rec); body["error"] != "ESP32 camera URL not configured" {
		t.Errorf("body = %v", body)
	}
}

func TestCameraConnectFailure(t *testing.T) {
	camera := &fakeCamera{err: errors.New("dial tcp 192.168.1.50:81: connect: no route to host")}
	c := NewCameraController(camera, zap.NewNop())
	rec := httptest.NewRecorder()
	c.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/api/camera-stream", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := decodeError(t, rec); body["error"] != "Failed to connect to ESP32 camera" {
		t.Errorf("body = %v", body)
	}
}

func TestCameraRelaysStatusHeadersAndBytes(t *testing.T) {
	frames := "--frame\r\nContent-Type: image/jpeg\r\n\r\n\xff\xd8\xff\xd9\r\n--frame\r\n"
	upstream := http.Header{}
	upstream.Set("Content-Type", "multipart/x-mixed-replace;boundary=123456789000000000000987654321")
	upstream.Set("Access-Control-Allow-Origin", "http://192.168.1.50")
	upstream.Set("X-Framerate", "25")

	camera := &fakeCamera{stream: &adapter.CameraStream{
		StatusCode: http.StatusOK,
		Header:     upstream,
		Body:       io.NopCloser(strings.NewReader(frames)),
	}}
	c := NewCameraController(camera, zap.NewNop())
	rec := httptest.NewRecorder()
	c.HandleStream(rec, httptest.NewRequest(http.MethodGet, "/api/camera-stream", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO = %q, want *", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "multipart/x-mixed-replace;boundary=123456789000000000000987654321" {
		t.Errorf("upstream Content-Type not forwarded: %q", got)
	}
	if got := rec.Header().Get("X-Framerate"); got != "25" {
		t.Errorf("X-Framerate = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control = %q", got)
	}
	if rec.Body.String() != frames {
		t.Errorf("body altered: %q", rec.Body.String())
	}
	if !rec.Flushed {
		t.Error("stream was not flushed")
	}
}

func TestCameraForwardsUpstreamStatus(t *testing.T) {
	camera := &fakeCamera{stream: &adapter.CameraStream{
		StatusCode: http.StatusServiceUnavailable,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("busy")),
	}}
	rec := httptest.NewRecorder()
	NewCameraController(camera, zap.NewNop()).HandleStream(rec, httptest.NewRequest(http.MethodGet, "/api/camera-stream", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("preset Content-Type lost: %q", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "busy" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

type failingReader struct{ sent bool }

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, "--frame\r\n"), nil
	}
	return 0, errors.New("connection reset by peer")
}

func TestCameraMidStreamFailureEndsWithoutJSON(t *testing.T) {
	camera := &fakeCamera{stream: &adapter.CameraStream{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(&failingReader{}),
	}}
	rec := httptest.NewRecorder()
	NewCameraController(camera, zap.NewNop()).HandleStream(rec, httptest.NewRequest(http.MethodGet, "/api/camera-stream", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.String() != "--frame\r\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"Sator.eden/internal/metrics"
)

// CameraStream is an open upstream MJPEG response. Body must be closed.
type CameraStream struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// CameraSource opens the ESP32 camera stream. The ESP32 serves one
// never-ending multipart response, so the client has no timeout and the
// stream lives as long as ctx.
type CameraSource struct {
	client *resty.Client
	url    string
}

// NewCameraSource creates a source for the camera at url.
func NewCameraSource(url string) *CameraSource {
	return &CameraSource{
		client: resty.New().SetHeader("User-Agent", "Mozilla/5.0"),
		url:    url,
	}
}

// URL returns the upstream address.
func (c *CameraSource) URL() string {
	return c.url
}

// Open connects to the camera. Any status is returned as-is; only transport
// failures are errors.
func (c *CameraSource) Open(ctx context.Context) (*CameraStream, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(c.url)
	if err != nil {
		metrics.ObserveUpstream("camera", metrics.OutcomeError)
		return nil, fmt.Errorf("connecting to camera: %w", err)
	}
	metrics.ObserveUpstream("camera", metrics.OutcomeSuccess)
	return &CameraStream{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.RawBody(),
	}, nil
}

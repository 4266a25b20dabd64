package controller

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"Sator.eden/internal/adapter"
	"Sator.eden/internal/metrics"
	"Sator.eden/internal/models"
	"Sator.eden/internal/utils"
)

const streamChunkSize = 16 * 1024

// CameraOpener opens the upstream camera stream.
type CameraOpener interface {
	Open(ctx context.Context) (*adapter.CameraStream, error)
}

// CameraController relays the ESP32 MJPEG stream to browsers that cannot
// reach the camera directly or are blocked by CORS.
type CameraController struct {
	camera CameraOpener
	logger *zap.Logger
}

// NewCameraController creates a CameraController. camera is nil when no
// camera URL is configured.
func NewCameraController(camera CameraOpener, logger *zap.Logger) *CameraController {
	return &CameraController{camera: camera, logger: logger}
}

// HandleStream answers GET /api/camera-stream. Once the upstream status is
// forwarded, errors can only end the stream.
func (c *CameraController) HandleStream(w http.ResponseWriter, r *http.Request) {
	if c.camera == nil {
		utils.RespondWithError(w, models.NewConfigurationError("ESP32 camera URL not configured"))
		return
	}

	header := w.Header()
	header.Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")

	stream, err := c.camera.Open(r.Context())
	if err != nil {
		c.logger.Error("ESP32 camera proxy error", zap.Error(err))
		utils.RespondWithError(w, models.NewUpstreamError("Failed to connect to ESP32 camera"))
		return
	}
	defer stream.Body.Close()

	for key, values := range stream.Header {
		header[key] = values
	}
	header.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(stream.StatusCode)

	metrics.CameraStreamsActive.Inc()
	defer metrics.CameraStreamsActive.Dec()

	c.relay(w, r, stream.Body)
}

// relay copies chunk by chunk, flushing each one so frames are not held in
// buffers. A slow client blocks the write and so the upstream read.
func (c *CameraController) relay(w http.ResponseWriter, r *http.Request, body io.Reader) {
	rc := http.NewResponseController(w)
	buf := make([]byte, streamChunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				c.logger.Debug("Camera client disconnected", zap.Error(err))
				return
			}
			metrics.CameraBytesTotal.Add(float64(n))
			if err := rc.Flush(); err != nil {
				c.logger.Warn("Camera stream cannot be flushed", zap.Error(err))
				return
			}
		}
		if readErr == io.EOF {
			return
		}
		if readErr != nil {
			if r.Context().Err() == nil && !errors.Is(readErr, context.Canceled) {
				c.logger.Warn("Camera stream interrupted", zap.Error(readErr))
			}
			return
		}
	}
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"Sator.eden/internal/models"
)

const (
	DefaultArchiveStart  = "-24h"
	DefaultArchiveWindow = "1h"
)

// ArchiveReader queries archived readings.
type ArchiveReader interface {
	Query(ctx context.Context, query models.ArchiveQuery) (map[string][]models.DataPoint, error)
}

// ArchiveService answers history lookups beyond ThingSpeak's recent feed.
type ArchiveService struct {
	repo     ArchiveReader
	channels map[string]models.Channel
	logger   *zap.Logger
}

// NewArchiveService creates an ArchiveService. repo is nil when no archive is
// configured.
func NewArchiveService(repo ArchiveReader, logger *zap.Logger, channels ...models.Channel) *ArchiveService {
	byName := make(map[string]models.Channel, len(channels))
	for _, c := range channels {
		byName[c.Name] = c
	}
	return &ArchiveService{repo: repo, channels: byName, logger: logger}
}

// Readings returns windowed means of every field of the channel. Empty start
// and window fall back to the last day in hourly windows.
func (s *ArchiveService) Readings(ctx context.Context, channelName, start, window string) (*models.ArchiveResponse, error) {
	if s.repo == nil {
		return nil, models.NewAPIError(models.ErrorCodeServiceUnavailable, "Telemetry archive is not configured", nil, http.StatusServiceUnavailable).
			WithHint("Set INFLUXDB_URL, INFLUXDB_TOKEN and INFLUXDB_ORG to enable the archive")
	}
	channel, ok := s.channels[channelName]
	if !ok {
		return nil, models.NewAPIError(models.ErrorCodeNotFound, fmt.Sprintf("Unknown channel %q", channelName), nil, http.StatusNotFound)
	}

	if start == "" {
		start = DefaultArchiveStart
	}
	if window == "" {
		window = DefaultArchiveWindow
	}
	if err := validateArchiveRange(start, window); err != nil {
		return nil, err
	}

	readings, err := s.repo.Query(ctx, models.ArchiveQuery{
		Channel:        channel.Name,
		Fields:         channel.FieldNames[:],
		TimeRangeStart: start,
		WindowPeriod:   window,
	})
	if err != nil {
		s.logger.Error("Error fetching data from InfluxDB", zap.String("channel", channel.Name), zap.Error(err))
		return nil, models.NewUpstreamError("Failed to query archive: " + err.Error())
	}
	return &models.ArchiveResponse{Channel: channel.Name, Readings: readings}, nil
}

// validateArchiveRange accepts a negative relative start such as "-24h" and
// a positive window such as "1h". Both end up inside a Flux query, so nothing
// else gets through.
func validateArchiveRange(start, window string) error {
	if !strings.HasPrefix(start, "-") {
		return models.NewAPIError(models.ErrorCodeInvalidFormat, "start must be a negative duration such as -24h", nil, http.StatusBadRequest)
	}
	if d, err := time.ParseDuration(start); err != nil || d >= 0 {
		return models.NewAPIError(models.ErrorCodeInvalidFormat, "start must be a negative duration such as -24h", nil, http.StatusBadRequest)
	}
	if d, err := time.ParseDuration(window); err != nil || d <= 0 {
		return models.NewAPIError(models.ErrorCodeInvalidFormat, "window must be a positive duration such as 1h", nil, http.StatusBadRequest)
	}
	return nil
}

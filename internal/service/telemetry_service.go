package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"Sator.eden/internal/adapter"
	"Sator.eden/internal/metrics"
	"Sator.eden/internal/models"
)

const archiveWriteTimeout = 5 * time.Second

// TelemetrySource reads one channel's latest entry and recent feed.
type TelemetrySource interface {
	FetchChannel(ctx context.Context, channel models.Channel) (*models.ChannelFeed, error)
}

// ArchiveWriter stores fetched entries.
type ArchiveWriter interface {
	WriteReading(ctx context.Context, point models.ArchivePoint) error
}

// TelemetryService serves the top and bottom channels. The two channels are
// independent: one failing never affects the other.
type TelemetryService struct {
	source  TelemetrySource
	top     models.Channel
	bottom  models.Channel
	archive ArchiveWriter
	logger  *zap.Logger

	writes sync.WaitGroup
}

// NewTelemetryService creates a TelemetryService. archive may be nil.
func NewTelemetryService(source TelemetrySource, top, bottom models.Channel, archive ArchiveWriter, logger *zap.Logger) *TelemetryService {
	return &TelemetryService{
		source:  source,
		top:     top,
		bottom:  bottom,
		archive: archive,
		logger:  logger,
	}
}

// Top returns the atmospheric channel.
func (s *TelemetryService) Top(ctx context.Context) (*models.ChannelResponse[models.TopReading], error) {
	feed, err := s.fetch(ctx, s.top)
	if err != nil {
		return nil, err
	}
	return shape(feed, func(e models.FeedEntry) models.TopReading {
		return models.TopReading{
			Temperature: e.Values[0],
			Humidity:    e.Values[1],
			LightPct:    e.Values[2],
			AirQuality:  e.Values[3],
			Timestamp:   e.Timestamp,
		}
	}), nil
}

// Bottom returns the soil channel.
func (s *TelemetryService) Bottom(ctx context.Context) (*models.ChannelResponse[models.BottomReading], error) {
	feed, err := s.fetch(ctx, s.bottom)
	if err != nil {
		return nil, err
	}
	return shape(feed, func(e models.FeedEntry) models.BottomReading {
		return models.BottomReading{
			Nitrogen:     e.Values[0],
			Phosphorus:   e.Values[1],
			Potassium:    e.Values[2],
			SoilMoisture: e.Values[3],
			Timestamp:    e.Timestamp,
		}
	}), nil
}

func (s *TelemetryService) fetch(ctx context.Context, channel models.Channel) (*models.ChannelFeed, error) {
	if !channel.Configured() {
		return nil, models.NewConfigurationError(fmt.Sprintf("ThingSpeak %s credentials not configured", channel.Name))
	}

	feed, err := s.source.FetchChannel(ctx, channel)
	if err != nil {
		s.logger.Error("ThingSpeak sensor fetch error",
			zap.String("channel", channel.Name),
			zap.Bool("unavailable", errors.Is(err, adapter.ErrChannelUnavailable)),
			zap.Error(err),
		)
		return nil, models.NewAPIError(models.ErrorCodeChannelUnavailable,
			fmt.Sprintf("Failed to fetch %s data", channel.Name), nil, http.StatusInternalServerError)
	}

	s.mirror(ctx, channel, feed.Current)
	return feed, nil
}

// mirror copies the current entry into the archive in the background, so the
// response never waits on InfluxDB. Entries are keyed by their vendor
// timestamp, so polling the same entry repeatedly is harmless. Failures are
// logged and counted only.
func (s *TelemetryService) mirror(ctx context.Context, channel models.Channel, entry models.FeedEntry) {
	if s.archive == nil {
		return
	}
	ts, err := time.Parse(time.RFC3339, entry.Timestamp)
	if err != nil {
		s.logger.Debug("Skipping archive of entry without timestamp",
			zap.String("channel", channel.Name),
			zap.String("timestamp", entry.Timestamp),
		)
		return
	}

	fields := make(map[string]float64, len(channel.FieldNames))
	for i, name := range channel.FieldNames {
		fields[name] = entry.Values[i]
	}

	point := models.ArchivePoint{Channel: channel.Name, Time: ts, Fields: fields}
	writeCtx := context.WithoutCancel(ctx)

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		ctx, cancel := context.WithTimeout(writeCtx, archiveWriteTimeout)
		defer cancel()
		if err := s.archive.WriteReading(ctx, point); err != nil {
			metrics.ArchiveWriteFailTotal.Inc()
			s.logger.Warn("Failed to archive reading", zap.String("channel", channel.Name), zap.Error(err))
		}
	}()
}

// Wait blocks until pending archive writes have finished.
func (s *TelemetryService) Wait() {
	s.writes.Wait()
}

func shape[T any](feed *models.ChannelFeed, convert func(models.FeedEntry) T) *models.ChannelResponse[T] {
	history := make([]T, 0, len(feed.History))
	for _, entry := range feed.History {
		history = append(history, convert(entry))
	}
	return &models.ChannelResponse[T]{
		Current: convert(feed.Current),
		History: history,
	}
}

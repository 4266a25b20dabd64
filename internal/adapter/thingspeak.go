package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Sator.eden/internal/metrics"
	"Sator.eden/internal/models"
)

// HistoryResults is how many recent entries are requested per channel.
const HistoryResults = 100

// ErrChannelUnavailable is returned when a channel's latest entry or recent
// feed cannot be read.
var ErrChannelUnavailable = errors.New("telemetry channel unavailable")

// thingSpeakEntry is one element of a ThingSpeak feed. Field values arrive as
// strings, numbers or null.
type thingSpeakEntry struct {
	CreatedAt string          `json:"created_at"`
	Field1    json.RawMessage `json:"field1"`
	Field2    json.RawMessage `json:"field2"`
	Field3    json.RawMessage `json:"field3"`
	Field4    json.RawMessage `json:"field4"`
}

type thingSpeakFeed struct {
	Feeds []thingSpeakEntry `json:"feeds"`
}

// ThingSpeakReader reads channel feeds from the ThingSpeak REST API.
type ThingSpeakReader struct {
	client *resty.Client
	logger *zap.Logger
}

// NewThingSpeakReader creates a reader against baseURL, normally
// https://api.thingspeak.com.
func NewThingSpeakReader(baseURL string, logger *zap.Logger) *ThingSpeakReader {
	return &ThingSpeakReader{
		client: resty.New().SetBaseURL(baseURL),
		logger: logger,
	}
}

// FetchChannel reads the latest entry and the recent feed concurrently. Both
// reads must finish before anything is assembled; a failure of either one
// fails the channel, except for a malformed feed body, which only empties the
// history.
func (r *ThingSpeakReader) FetchChannel(ctx context.Context, channel models.Channel) (*models.ChannelFeed, error) {
	var (
		last    thingSpeakEntry
		history []models.FeedEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entry, err := r.fetchLast(gctx, channel)
		if err != nil {
			return err
		}
		last = entry
		return nil
	})
	g.Go(func() error {
		entries, err := r.fetchFeed(gctx, channel)
		if err != nil {
			return err
		}
		history = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChannelUnavailable, channel.Name, err)
	}

	return &models.ChannelFeed{
		Current: normalize(last, channel.WholeUnits),
		History: history,
	}, nil
}

func (r *ThingSpeakReader) fetchLast(ctx context.Context, channel models.Channel) (thingSpeakEntry, error) {
	var entry thingSpeakEntry
	body, err := r.get(ctx, channel, "/channels/{channelID}/feeds/last.json", nil)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(body, &entry); err != nil {
		// ThingSpeak answers "-1" instead of an object for unknown keys.
		metrics.ObserveUpstream("thingspeak", metrics.OutcomeMalformed)
		return entry, fmt.Errorf("malformed last entry: %w", err)
	}
	return entry, nil
}

func (r *ThingSpeakReader) fetchFeed(ctx context.Context, channel models.Channel) ([]models.FeedEntry, error) {
	body, err := r.get(ctx, channel, "/channels/{channelID}/feeds.json", map[string]string{
		"results": fmt.Sprint(HistoryResults),
	})
	if err != nil {
		return nil, err
	}

	history := make([]models.FeedEntry, 0, HistoryResults)
	var feed thingSpeakFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		metrics.ObserveUpstream("thingspeak", metrics.OutcomeMalformed)
		r.logger.Warn("Malformed ThingSpeak feed, serving empty history",
			zap.String("channel", channel.Name),
			zap.Error(err),
		)
		return history, nil
	}
	for _, entry := range feed.Feeds {
		history = append(history, normalize(entry, channel.WholeUnits))
	}
	return history, nil
}

// get performs one authenticated GET and returns the raw body of a 2xx reply.
func (r *ThingSpeakReader) get(ctx context.Context, channel models.Channel, path string, query map[string]string) ([]byte, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("channelID", channel.ID).
		SetQueryParam("api_key", channel.ReadKey).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		metrics.ObserveUpstream("thingspeak", metrics.OutcomeError)
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	if !resp.IsSuccess() {
		metrics.ObserveUpstream("thingspeak", metrics.OutcomeError)
		return nil, fmt.Errorf("request %s: status %d", path, resp.StatusCode())
	}
	metrics.ObserveUpstream("thingspeak", metrics.OutcomeSuccess)
	return resp.Body(), nil
}

func normalize(entry thingSpeakEntry, whole bool) models.FeedEntry {
	parse := models.ParseReading
	if whole {
		parse = models.ParseWholeReading
	}
	return models.FeedEntry{
		Timestamp: entry.CreatedAt,
		Values: [4]float64{
			parse(entry.Field1),
			parse(entry.Field2),
			parse(entry.Field3),
			parse(entry.Field4),
		},
	}
}

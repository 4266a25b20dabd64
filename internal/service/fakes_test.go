package service

import (
	"context"
	"sync"

	"Sator.eden/internal/models"
)

type fakeModel struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	models  []models.ModelInfo
}

func (f *fakeModel) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeModel) ListModels(context.Context) ([]models.ModelInfo, error) {
	return f.models, f.err
}

func (f *fakeModel) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeSpeech struct {
	audio []byte
	texts []string
}

func (f *fakeSpeech) Synthesize(_ context.Context, text string) []byte {
	f.texts = append(f.texts, text)
	return f.audio
}

type fakeSource struct {
	feeds map[string]*models.ChannelFeed
	err   error
	calls []string
}

func (f *fakeSource) FetchChannel(_ context.Context, channel models.Channel) (*models.ChannelFeed, error) {
	f.calls = append(f.calls, channel.Name)
	if f.err != nil {
		return nil, f.err
	}
	return f.feeds[channel.Name], nil
}

type fakeArchive struct {
	mu      sync.Mutex
	points  []models.ArchivePoint
	queries []models.ArchiveQuery
	result  map[string][]models.DataPoint
	err     error
}

func (f *fakeArchive) WriteReading(_ context.Context, point models.ArchivePoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, point)
	return f.err
}

func (f *fakeArchive) written() []models.ArchivePoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ArchivePoint(nil), f.points...)
}

// stalledArchive blocks every write until release is closed.
type stalledArchive struct {
	release chan struct{}
	done    chan struct{}
}

func (s *stalledArchive) WriteReading(ctx context.Context, _ models.ArchivePoint) error {
	defer close(s.done)
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeArchive) Query(_ context.Context, query models.ArchiveQuery) (map[string][]models.DataPoint, error) {
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeArchive) Ping(context.Context) error {
	return f.err
}

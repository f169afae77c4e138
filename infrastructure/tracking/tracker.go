// Package tracking reports clone state transitions to subscribers.
package tracking

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helixml/gitclone/domain/clone"
)

// Reporter receives progress updates.
type Reporter interface {
	OnChange(ctx context.Context, progress clone.Progress) error
}

// Tracker holds the progress of one run and propagates state changes to
// registered reporters.
type Tracker struct {
	progress    clone.Progress
	subscribers []Reporter
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewTracker creates a new Tracker in the start state.
func NewTracker(logger *slog.Logger, reporters ...Reporter) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		progress:    clone.NewProgress(),
		subscribers: reporters,
		logger:      logger,
	}
}

// Progress returns a copy of the current progress.
func (t *Tracker) Progress() clone.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Subscribe adds a reporter to receive progress notifications.
func (t *Tracker) Subscribe(reporter Reporter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, reporter)
}

// Advance moves the run to state.
func (t *Tracker) Advance(ctx context.Context, state clone.State, message string) {
	t.mu.Lock()
	t.progress = t.progress.Advance(state, message)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Fail marks the run as failed.
func (t *Tracker) Fail(ctx context.Context, message string, err error) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}

	t.mu.Lock()
	t.progress = t.progress.Fail(message, errText)
	progress := t.progress
	t.mu.Unlock()

	t.notifySubscribers(ctx, progress)
}

// Complete marks the run as succeeded.
func (t *Tracker) Complete(ctx context.Context, message string) {
	t.Advance(ctx, clone.StateSucceeded, message)
}

func (t *Tracker) notifySubscribers(ctx context.Context, progress clone.Progress) {
	t.mu.RLock()
	subscribers := make([]Reporter, len(t.subscribers))
	copy(subscribers, t.subscribers)
	t.mu.RUnlock()

	for _, subscriber := range subscribers {
		if err := subscriber.OnChange(ctx, progress); err != nil {
			t.logger.Error("failed to notify subscriber",
				slog.String("error", err.Error()),
				slog.String("state", string(progress.State())),
			)
		}
	}
}

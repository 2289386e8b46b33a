package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionJanitor periodically evicts idle quiz sessions.
type SessionJanitor struct {
	store    SessionSweeper
	ttl      time.Duration
	schedule string
	logger   *zap.Logger
}

// NewSessionJanitor validates the cron schedule up front.
func NewSessionJanitor(store SessionSweeper, ttl time.Duration, schedule string, logger *zap.Logger) (*SessionJanitor, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", schedule, err)
	}

	return &SessionJanitor{
		store:    store,
		ttl:      ttl,
		schedule: schedule,
		logger:   logger,
	}, nil
}

// Start runs the eviction job until ctx is cancelled.
func (j *SessionJanitor) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(j.schedule, j.Sweep)
	if err != nil {
		j.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	j.logger.Info("session janitor started", zap.String("schedule", j.schedule), zap.Duration("ttl", j.ttl))

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
}

// Sweep evicts idle sessions once.
func (j *SessionJanitor) Sweep() {
	removed := j.store.Sweep(j.ttl)
	if removed > 0 {
		j.logger.Info("evicted idle quiz sessions", zap.Int("count", removed))
	}
}

// Package checker periodically reports running workspaces that are past their
// autostop deadline.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mtlprog/wsschedule/internal/domain"
)

// Source lists workspaces that are shutting down at a given instant.
type Source interface {
	ShuttingDown(ctx context.Context, now time.Time) ([]*domain.Workspace, error)
}

// Checker polls a Source on an interval.
type Checker struct {
	source   Source
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Checker. Intervals under a second fall back to one minute.
func New(source Source, interval time.Duration, logger *slog.Logger) *Checker {
	if interval < time.Second {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		source:   source,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the checker's clock.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// CheckOnce scans for workspaces past their deadline and logs each one.
func (c *Checker) CheckOnce(ctx context.Context) ([]*domain.Workspace, error) {
	now := c.now().UTC()
	workspaces, err := c.source.ShuttingDown(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, ws := range workspaces {
		attrs := []any{
			"workspace_id", ws.ID,
			"workspace_name", ws.Name,
			"owner", ws.OwnerName,
		}
		if ws.LatestBuild.Deadline != nil {
			attrs = append(attrs,
				"deadline", ws.LatestBuild.Deadline.UTC(),
				"overdue", now.Sub(*ws.LatestBuild.Deadline).Truncate(time.Second).String(),
			)
		}
		c.logger.Warn("workspace is shutting down", attrs...)
	}

	c.logger.Debug("deadline check completed", "shutting_down", len(workspaces), "at", now)
	return workspaces, nil
}

// Start runs CheckOnce immediately and then on every tick until ctx is done.
// Scan failures are logged and do not stop the loop.
func (c *Checker) Start(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("deadline checker started", "interval", c.interval.String())
	for {
		if _, err := c.CheckOnce(ctx); err != nil && ctx.Err() == nil {
			c.logger.Error("deadline check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			c.logger.Info("deadline checker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

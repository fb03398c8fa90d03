// Package cron schedules the recurring reminder sweep
package cron

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jananicare/server/internal/reminders"
)

// Runner triggers the all-users reminder sweep on a cron schedule
type Runner struct {
	cron   *cron.Cron
	svc    *reminders.Service
	logger *zap.Logger
}

// NewRunner creates a runner for the given 5-field cron expression
func NewRunner(spec string, svc *reminders.Service, logger *zap.Logger) (*Runner, error) {
	r := &Runner{
		cron:   cron.New(),
		svc:    svc,
		logger: logger,
	}

	if _, err := r.cron.AddFunc(spec, r.sweep); err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", spec, err)
	}

	return r, nil
}

// Start begins the schedule in a background goroutine
func (r *Runner) Start() {
	r.cron.Start()
	r.logger.Info("Reminder sweep scheduler started")
}

// Stop halts the schedule and waits for a running sweep to finish
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Reminder sweep scheduler stopped")
}

func (r *Runner) sweep() {
	r.logger.Info("Starting scheduled reminder sweep")

	stats := r.svc.RunForAllUsers(context.Background())
	if stats.Error != "" {
		r.logger.Error("Scheduled sweep failed", zap.String("error", stats.Error))
	}
}

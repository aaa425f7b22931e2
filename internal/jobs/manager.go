package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the retention sweep hourly.
const DefaultSchedule = "@every 1h"

// Manager owns the cron engine for background jobs.
type Manager struct {
	engine *cron.Cron
	chain  cron.Chain
	logger *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger.With(slog.String("component", "cron"))}
	recoverer := cron.Recover(cl)
	return &Manager{
		engine: cron.New(cron.WithLogger(cl), cron.WithChain(recoverer)),
		chain:  cron.NewChain(recoverer),
		logger: logger,
	}
}

// cronLogger routes cron's scheduler and panic reports to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}

// Register schedules job. An empty spec uses DefaultSchedule.
func (m *Manager) Register(spec string, job cron.Job) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := m.engine.AddJob(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

func (m *Manager) Start() {
	m.logger.Info("job scheduler started", slog.Int("jobs", len(m.engine.Entries())))
	m.engine.Start()
}

// Stop halts scheduling and waits for running jobs or ctx, whichever
// comes first.
func (m *Manager) Stop(ctx context.Context) {
	done := m.engine.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	m.logger.Info("job scheduler stopped")
}

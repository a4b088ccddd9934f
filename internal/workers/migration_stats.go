package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/metrics"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
)

const defaultStatsInterval = time.Minute

// migrationStatsWorker refreshes the migration gauges from the user table.
type migrationStatsWorker struct {
	users    store.UserRepository
	interval time.Duration
	logger   *logger.Logger
}

// NewMigrationStatsWorker returns a worker that publishes migration stats
// every interval. A non-positive interval defaults to one minute.
func NewMigrationStatsWorker(users store.UserRepository, interval time.Duration, logger *logger.Logger) Worker {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &migrationStatsWorker{users: users, interval: interval, logger: logger}
}

func (w *migrationStatsWorker) Run(ctx context.Context) {
	ctx = w.logger.WithContext(ctx)

	w.refresh(ctx)

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.refresh(ctx)
		}
	}
}

func (w *migrationStatsWorker) refresh(ctx context.Context) {
	stats, err := w.users.MigrationStats(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Err(err).Str("func", "*migrationStatsWorker.refresh").Msg("error loading migration stats")
		}
		return
	}

	metrics.SetMigrationStats(stats)
}

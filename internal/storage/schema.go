package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// InitSchema waits delay for the database to come up, then creates the
// messages table if it is missing. Failures are logged and returned; callers
// are expected to keep running.
func InitSchema(ctx context.Context, d Dialer, delay time.Duration, log *zap.Logger) error {
	if delay > 0 {
		log.Info("waiting before schema initialization", zap.Duration("delay", delay))
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			log.Error("schema initialization aborted", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-t.C:
		}
	}

	repo, err := d.Connect(ctx)
	if err != nil {
		log.Error("schema initialization failed", zap.Error(err))
		return err
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Error("schema initialization failed", zap.Error(err))
		return err
	}

	log.Info("messages table ready")
	return nil
}

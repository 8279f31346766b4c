package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"messageboard/internal/config"
	"messageboard/internal/observability"
)

// liveConnector targets a real server and skips unless DB_HOST is set, e.g.
//
//	DB_HOST=localhost DB_PASS=secret go test ./internal/storage -run Postgres_Live
func liveConnector(t *testing.T) *Connector {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.ConnectAttempts = 3
	cfg.Database.ConnectDelay = 200 * time.Millisecond

	return NewConnector(cfg.Database, zap.NewNop(), observability.NewMetrics())
}

func TestPostgres_Live_InitSchemaTwice(t *testing.T) {
	req := require.New(t)
	c := liveConnector(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req.NoError(InitSchema(ctx, c, 0, zap.NewNop()))
	req.NoError(InitSchema(ctx, c, 0, zap.NewNop()))

	repo, err := c.Connect(ctx)
	req.NoError(err)
	defer repo.Close()

	var tables int
	err = repo.(*Postgres).db.QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = 'messages'`,
	).Scan(&tables)
	req.NoError(err)
	req.Equal(1, tables)
}

func TestPostgres_Live_SaveAndList(t *testing.T) {
	req := require.New(t)
	c := liveConnector(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req.NoError(InitSchema(ctx, c, 0, zap.NewNop()))

	repo, err := c.Connect(ctx)
	req.NoError(err)
	defer repo.Close()

	marker := fmt.Sprintf("live-%d", time.Now().UnixNano())
	first, err := repo.Save(ctx, marker+"-a")
	req.NoError(err)
	time.Sleep(10 * time.Millisecond)
	second, err := repo.Save(ctx, marker+"-b")
	req.NoError(err)
	req.Greater(second.ID, first.ID)

	got, err := repo.FindByID(ctx, second.ID)
	req.NoError(err)
	req.Equal(marker+"-b", got.Content)

	messages, err := repo.FindAll(ctx)
	req.NoError(err)

	var order []string
	for _, m := range messages {
		if m.Content == marker+"-a" || m.Content == marker+"-b" {
			order = append(order, m.Content)
		}
	}
	req.Equal([]string{marker + "-b", marker + "-a"}, order)
}

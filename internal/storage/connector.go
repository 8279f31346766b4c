package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"messageboard/internal/config"
	"messageboard/internal/observability"
)

// Connector opens a dedicated database session per call, retrying with a
// fixed delay while the database is unreachable.
type Connector struct {
	dsn      string
	attempts int
	delay    time.Duration
	log      *zap.Logger
	metrics  *observability.Metrics
	open     func(ctx context.Context, dsn string) (*sql.DB, error)
}

func NewConnector(cfg config.DatabaseConfig, log *zap.Logger, m *observability.Metrics) *Connector {
	return &Connector{
		dsn:      DSN(cfg),
		attempts: cfg.ConnectAttempts,
		delay:    cfg.ConnectDelay,
		log:      log,
		metrics:  m,
		open:     openPostgres,
	}
}

// DSN renders the connection URL understood by lib/pq.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// WithAttempts returns a copy of c with a different attempt budget.
func (c *Connector) WithAttempts(n int) *Connector {
	cp := *c
	cp.attempts = max(n, 1)
	return &cp
}

func (c *Connector) Connect(ctx context.Context) (MessageRepository, error) {
	var lastErr error

	for i := 1; i <= c.attempts; i++ {
		db, err := c.open(ctx, c.dsn)
		if err == nil {
			c.record("ok")
			if i > 1 {
				c.log.Info("database connection established", zap.Int("attempt", i))
			}
			return &Postgres{db: db}, nil
		}

		c.record("error")
		lastErr = err
		c.log.Warn("database connection failed",
			zap.Int("attempt", i),
			zap.Int("max_attempts", c.attempts),
			zap.Error(err),
		)

		if i == c.attempts {
			break
		}

		t := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("connect to database: %w", ctx.Err())
		case <-t.C:
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", c.attempts, lastErr)
}

func (c *Connector) record(result string) {
	if c.metrics != nil {
		c.metrics.ConnectAttempts.WithLabelValues(result).Inc()
	}
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// One session, one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"messageboard/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

type Postgres struct {
	db *sql.DB
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, content string) (domain.Message, error) {
	if content == "" {
		return domain.Message{}, domain.ErrEmptyContent
	}

	query := `
		INSERT INTO messages (content)
		VALUES ($1)
		RETURNING id, content, created_at
	`

	var msg domain.Message
	err := p.db.QueryRowContext(ctx, query, content).Scan(
		&msg.ID,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		return domain.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

func (p *Postgres) FindAll(ctx context.Context) ([]domain.Message, error) {
	query := `
		SELECT id, content, created_at
		FROM messages ORDER BY created_at DESC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (p *Postgres) FindByID(ctx context.Context, id int64) (domain.Message, error) {
	query := `
		SELECT id, content, created_at
		FROM messages WHERE id = $1
	`

	var msg domain.Message
	err := p.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.Content,
		&msg.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("select message %d: %w", id, err)
	}

	return msg, nil
}

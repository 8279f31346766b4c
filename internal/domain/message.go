package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyContent = errors.New("message content is empty")
	ErrNotFound     = errors.New("message not found")
)

// Message is a single submitted entry. All fields are set by the database
// on insert and never change afterwards.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

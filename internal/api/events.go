package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"messageboard/internal/domain"
)

// SSEBroker fans new messages out to open listing pages. Slow clients miss
// events rather than block the submitter.
type SSEBroker struct {
	clients map[chan string]bool
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
}

func NewSSEBroker() *SSEBroker {
	return &SSEBroker{
		clients: make(map[chan string]bool),
		done:    make(chan struct{}),
	}
}

func (b *SSEBroker) Subscribe() chan string {
	ch := make(chan string, 10)
	b.mu.Lock()
	b.clients[ch] = true
	b.mu.Unlock()
	return ch
}

func (b *SSEBroker) Unsubscribe(ch chan string) {
	b.mu.Lock()
	delete(b.clients, ch)
	close(ch)
	b.mu.Unlock()
}

func (b *SSEBroker) Broadcast(msg string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Close ends every open stream.
func (b *SSEBroker) Close() {
	b.once.Do(func() { close(b.done) })
}

func (s *Server) publishLocal(msg domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Warn("encode message event", zap.Int64("id", msg.ID), zap.Error(err))
		return
	}
	s.sse.Broadcast(string(data))
}

func (s *Server) events(c echo.Context) error {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")

	ch := s.sse.Subscribe()
	defer s.sse.Unsubscribe(ch)

	fmt.Fprintf(c.Response(), ": ping\n\n")
	c.Response().Flush()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-s.sse.done:
			return nil
		case msg := <-ch:
			fmt.Fprintf(c.Response(), "event: message\n")
			for _, line := range strings.Split(msg, "\n") {
				fmt.Fprintf(c.Response(), "data: %s\n", line)
			}
			fmt.Fprintf(c.Response(), "\n")
			c.Response().Flush()
		}
	}
}

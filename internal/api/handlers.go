package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"messageboard/internal/domain"
	"messageboard/internal/observability"
	"messageboard/internal/storage"
)

type resultsPage struct {
	Messages []domain.Message
}

func (s *Server) index(c echo.Context) error {
	return s.render(c, "index.html", nil)
}

// submit stores the posted content and redirects back to the form so a
// reload does not post it again. Storage failures are only logged.
func (s *Server) submit(c echo.Context) error {
	content := c.FormValue("content")
	if content == "" {
		s.metrics.Submissions.WithLabelValues(observability.SubmissionEmpty).Inc()
		return s.render(c, "index.html", nil)
	}

	ctx := c.Request().Context()

	msg, err := s.save(ctx, content)
	if err != nil {
		s.metrics.Submissions.WithLabelValues(observability.SubmissionFailed).Inc()
		s.log.Error("insert message", zap.Error(err))
		return c.Redirect(http.StatusFound, "/")
	}
	s.metrics.Submissions.WithLabelValues(observability.SubmissionStored).Inc()
	s.publishLocal(msg)

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("publish message event", zap.Int64("id", msg.ID), zap.Error(err))
	}

	return c.Redirect(http.StatusFound, "/")
}

func (s *Server) results(c echo.Context) error {
	messages := s.listMessages(c.Request().Context())
	return s.render(c, "results.html", resultsPage{Messages: messages})
}

func (s *Server) save(ctx context.Context, content string) (domain.Message, error) {
	repo, err := s.db.Connect(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	defer s.release(repo)

	return repo.Save(ctx, content)
}

// listMessages returns every message newest first, or nil when the
// database cannot be read.
func (s *Server) listMessages(ctx context.Context) []domain.Message {
	repo, err := s.db.Connect(ctx)
	if err != nil {
		s.metrics.ListingFailures.Inc()
		s.log.Error("list messages", zap.Error(err))
		return nil
	}
	defer s.release(repo)

	messages, err := repo.FindAll(ctx)
	if err != nil {
		s.metrics.ListingFailures.Inc()
		s.log.Error("list messages", zap.Error(err))
		return nil
	}

	return messages
}

func (s *Server) release(repo storage.MessageRepository) {
	if err := repo.Close(); err != nil {
		s.log.Warn("close database session", zap.Error(err))
	}
}

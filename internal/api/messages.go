package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"messageboard/internal/domain"
)

// listJSON mirrors /results: an unreachable database yields an empty list.
func (s *Server) listJSON(c echo.Context) error {
	messages := s.listMessages(c.Request().Context())
	if messages == nil {
		messages = []domain.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

func (s *Server) getJSON(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	repo, err := s.db.Connect(ctx)
	if err != nil {
		s.log.Error("get message", zap.Int64("id", id), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
	}
	defer s.release(repo)

	msg, err := repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "message not found"})
	}
	if err != nil {
		s.log.Error("get message", zap.Int64("id", id), zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "database unavailable"})
	}

	return c.JSON(http.StatusOK, msg)
}

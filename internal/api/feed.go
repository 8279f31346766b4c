package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const feedContentType = "application/rss+xml; charset=utf-8"

// feed serves the listing as RSS 2.0. It degrades the same way as /results.
func (s *Server) feed(c echo.Context) error {
	messages := s.listMessages(c.Request().Context())
	results := c.Scheme() + "://" + c.Request().Host + "/results"

	f := &feeds.Feed{
		Title:       "Messages",
		Link:        &feeds.Link{Href: results},
		Description: "Submitted messages, newest first",
	}
	if len(messages) > 0 {
		f.Created = messages[0].CreatedAt
	}

	for _, m := range messages {
		f.Items = append(f.Items, &feeds.Item{
			Title:       truncate(m.Content, 60),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s#message-%d", results, m.ID)},
			Description: m.Content,
			Id:          strconv.FormatInt(m.ID, 10),
			Created:     m.CreatedAt,
		})
	}

	out, err := f.ToRss()
	if err != nil {
		s.log.Error("encode feed", zap.Error(err))
		return err
	}

	return c.Blob(http.StatusOK, feedContentType, []byte(out))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

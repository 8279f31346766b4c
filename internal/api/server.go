package api

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"messageboard/internal/observability"
	"messageboard/internal/queue"
	"messageboard/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const timeLayout = "2006-01-02 15:04:05"

type Server struct {
	echo      *echo.Echo
	db        storage.Dialer
	publisher queue.Publisher
	log       *zap.Logger
	metrics   *observability.Metrics
	templates *template.Template
	sse       *SSEBroker
}

func NewServer(db storage.Dialer, pub queue.Publisher, log *zap.Logger, m *observability.Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(m.Middleware())
	e.Use(observability.RequestLogger(log))

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"timestamp": func(t time.Time) string { return t.Format(timeLayout) },
	}).ParseFS(templateFS, "templates/*.html"))

	s := &Server{
		echo:      e,
		db:        db,
		publisher: pub,
		log:       log,
		metrics:   m,
		templates: tmpl,
		sse:       NewSSEBroker(),
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.index)
	s.echo.POST("/", s.submit)
	s.echo.GET("/results", s.results)
	s.echo.GET("/results/feed", s.feed)

	api := s.echo.Group("/api")
	api.GET("/messages", s.listJSON)
	api.GET("/messages/:id", s.getJSON)
	api.GET("/events", s.events)

	s.echo.GET("/health", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.sse.Close()
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) render(c echo.Context, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.log.Error("render template", zap.String("template", name), zap.Error(err))
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

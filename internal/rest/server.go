package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/newsstand-hq/newsstand-reader/internal/bookmarks"
	"github.com/newsstand-hq/newsstand-reader/internal/catalog"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
	"github.com/newsstand-hq/newsstand-reader/internal/prefs"
	"github.com/newsstand-hq/newsstand-reader/internal/theme"
	"github.com/newsstand-hq/newsstand-reader/pkg/sinks"
	"github.com/newsstand-hq/newsstand-reader/pkg/sources"
)

// Server exposes the reader core over HTTP. It is the process's outer
// surface: every route maps onto one repository or service operation.
type Server struct {
	echo      *echo.Echo
	log       logger.Logger
	source    sources.Source
	catalog   *catalog.Catalog
	bookmarks *bookmarks.Repository
	snaps     *bookmarks.Snapshotter
	prefs     *prefs.Repository
	theme     *theme.Manager
	events    *sinks.Fanout
}

// Deps carries the wired components the server serves.
type Deps struct {
	Source    sources.Source
	Catalog   *catalog.Catalog
	Bookmarks *bookmarks.Repository
	Snapshots *bookmarks.Snapshotter
	Prefs     *prefs.Repository
	Theme     *theme.Manager
	Events    *sinks.Fanout
	Log       logger.Logger
}

// NewServer builds the echo server and registers all routes.
func NewServer(deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:      e,
		log:       logger.Ensure(deps.Log),
		source:    deps.Source,
		catalog:   deps.Catalog,
		bookmarks: deps.Bookmarks,
		snaps:     deps.Snapshots,
		prefs:     deps.Prefs,
		theme:     deps.Theme,
		events:    deps.Events,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := s.echo.Group("/v1")

	v1.GET("/headlines", s.handleHeadlines)
	v1.GET("/search", s.handleSearch)
	v1.GET("/categories", s.handleCategories)
	v1.GET("/articles/:id", s.handleArticleByID)

	v1.GET("/bookmarks", s.handleListBookmarks)
	v1.POST("/bookmarks/toggle", s.handleToggleBookmark)
	v1.GET("/bookmarks/contains", s.handleContainsBookmark)
	v1.DELETE("/bookmarks", s.handleRemoveBookmark)
	v1.GET("/bookmarks/:id/snapshot", s.handleBookmarkSnapshot)

	v1.GET("/preferences", s.handleGetPreferences)
	v1.PATCH("/preferences", s.handleUpdatePreferences)

	v1.GET("/theme", s.handleGetTheme)
	v1.PUT("/theme", s.handleSetTheme)
	v1.POST("/theme/toggle", s.handleToggleTheme)
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// publish fans the event out to configured sinks; delivery failures are
// logged and never surface to the request.
func (s *Server) publish(ctx context.Context, evt sinks.Event) {
	if s.events == nil || s.events.Size() == 0 {
		return
	}
	if _, err := s.events.Send(ctx, evt); err != nil {
		s.log.WarnObj("event fanout partially failed", "event_error", map[string]any{
			"event_id": evt.ID,
			"action":   string(evt.Action),
			"error":    err.Error(),
		})
	}
}

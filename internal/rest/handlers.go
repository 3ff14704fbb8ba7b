package rest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/newsstand-hq/newsstand-reader/internal/domain"
	"github.com/newsstand-hq/newsstand-reader/internal/query"
	"github.com/newsstand-hq/newsstand-reader/internal/theme"
	"github.com/newsstand-hq/newsstand-reader/pkg/sinks"
	"github.com/newsstand-hq/newsstand-reader/pkg/sources"
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func internalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// handleHeadlines returns top headlines, optionally narrowed by country and
// category query parameters.
func (s *Server) handleHeadlines(c echo.Context) error {
	params := sources.HeadlinesParams{
		Country:  c.QueryParam("country"),
		Category: c.QueryParam("category"),
	}
	if params.Category != "" && !s.catalog.Known(params.Category) {
		return badRequest(c, "unknown category "+params.Category)
	}

	articles, err := s.source.TopHeadlines(c.Request().Context(), params)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

// handleSearch free-text searches the source corpus. Blank queries are a
// caller error.
func (s *Server) handleSearch(c echo.Context) error {
	q := c.QueryParam("q")

	articles, err := s.source.Search(c.Request().Context(), q)
	if err != nil {
		if errors.Is(err, query.ErrEmptyQuery) {
			return badRequest(c, "query must not be empty")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) handleCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.All())
}

// handleArticleByID resolves an article addressed by its percent-encoded URL,
// checking the live corpus first and falling back to bookmarks. Path
// unescaping keeps a literal + intact.
func (s *Server) handleArticleByID(c echo.Context) error {
	articleURL, err := url.PathUnescape(c.Param("id"))
	if err != nil || articleURL == "" {
		return badRequest(c, "invalid article id")
	}

	ctx := c.Request().Context()
	articles, err := s.source.TopHeadlines(ctx, sources.HeadlinesParams{})
	if err == nil {
		for _, a := range articles {
			if a.URL == articleURL {
				return c.JSON(http.StatusOK, a)
			}
		}
	}

	bookmarked, err := s.bookmarks.ByURL(ctx, articleURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "article not found")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, bookmarked)
}

func (s *Server) handleListBookmarks(c echo.Context) error {
	articles, err := s.bookmarks.List(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

type toggleResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

func (s *Server) handleToggleBookmark(c echo.Context) error {
	var article domain.Article
	if err := c.Bind(&article); err != nil {
		return badRequest(c, "invalid article payload")
	}
	if article.URL == "" {
		return badRequest(c, "article url is required")
	}

	ctx := c.Request().Context()
	bookmarked, err := s.bookmarks.Toggle(ctx, article)
	if err != nil {
		return internalError(c, err)
	}

	action := sinks.ActionBookmarkRemoved
	if bookmarked {
		action = sinks.ActionBookmarkAdded
	}
	s.publish(ctx, sinks.NewBookmarkEvent(action, article))

	return c.JSON(http.StatusOK, toggleResponse{Bookmarked: bookmarked})
}

func (s *Server) handleContainsBookmark(c echo.Context) error {
	articleURL := c.QueryParam("url")
	if articleURL == "" {
		return badRequest(c, "url parameter is required")
	}

	bookmarked, err := s.bookmarks.Contains(c.Request().Context(), domain.Article{URL: articleURL})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, toggleResponse{Bookmarked: bookmarked})
}

func (s *Server) handleRemoveBookmark(c echo.Context) error {
	articleURL := c.QueryParam("url")
	if articleURL == "" {
		return badRequest(c, "url parameter is required")
	}

	ctx := c.Request().Context()
	if err := s.bookmarks.Remove(ctx, articleURL); err != nil {
		return internalError(c, err)
	}
	s.publish(ctx, sinks.NewBookmarkEvent(sinks.ActionBookmarkRemoved, domain.Article{URL: articleURL}))

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleBookmarkSnapshot(c echo.Context) error {
	articleURL, err := url.PathUnescape(c.Param("id"))
	if err != nil || articleURL == "" {
		return badRequest(c, "invalid article id")
	}
	if s.snaps == nil {
		return notFound(c, "snapshots are disabled")
	}

	snap, err := s.snaps.Load(c.Request().Context(), articleURL)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c, "no snapshot for article")
		}
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (s *Server) handleGetPreferences(c echo.Context) error {
	record, err := s.prefs.Load(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

func (s *Server) handleUpdatePreferences(c echo.Context) error {
	var patch domain.PreferencesPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid preferences payload")
	}

	ctx := c.Request().Context()
	record, err := s.prefs.Update(ctx, patch)
	if err != nil {
		return badRequest(c, err.Error())
	}
	s.publish(ctx, sinks.NewPreferencesEvent())

	return c.JSON(http.StatusOK, record)
}

type themeResponse struct {
	Mode    domain.ThemeMode `json:"mode"`
	Palette theme.Palette    `json:"palette"`
}

// appearanceParam reads the system appearance signal from the request,
// defaulting to light.
func appearanceParam(c echo.Context) domain.Appearance {
	if c.QueryParam("appearance") == string(domain.AppearanceDark) {
		return domain.AppearanceDark
	}
	return domain.AppearanceLight
}

func (s *Server) handleGetTheme(c echo.Context) error {
	appearance := appearanceParam(c)
	return c.JSON(http.StatusOK, themeResponse{
		Mode:    s.theme.Mode(),
		Palette: s.theme.Resolve(appearance),
	})
}

type setThemeRequest struct {
	Mode domain.ThemeMode `json:"mode"`
}

func (s *Server) handleSetTheme(c echo.Context) error {
	var req setThemeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid theme payload")
	}

	ctx := c.Request().Context()
	if err := s.theme.SetMode(ctx, req.Mode); err != nil {
		return badRequest(c, err.Error())
	}
	s.publish(ctx, sinks.NewThemeEvent(req.Mode))

	return c.JSON(http.StatusOK, themeResponse{
		Mode:    req.Mode,
		Palette: s.theme.Resolve(appearanceParam(c)),
	})
}

func (s *Server) handleToggleTheme(c echo.Context) error {
	appearance := appearanceParam(c)

	ctx := c.Request().Context()
	mode := s.theme.Toggle(ctx, appearance)
	s.publish(ctx, sinks.NewThemeEvent(mode))

	return c.JSON(http.StatusOK, themeResponse{
		Mode:    mode,
		Palette: s.theme.Resolve(appearance),
	})
}

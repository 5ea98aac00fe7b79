package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/buddyscript/backend/internal/feed"
	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	assembler *feed.Assembler
	maxLimit  int
}

// NewFeedHandler creates a new FeedHandler. Requested page sizes above maxLimit are clamped.
func NewFeedHandler(assembler *feed.Assembler, maxLimit int) *FeedHandler {
	if maxLimit < 1 {
		maxLimit = 50
	}
	return &FeedHandler{assembler: assembler, maxLimit: maxLimit}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/posts", h.GetFeed)
}

// GetFeed returns one page of the viewer's feed. Clients treat a page shorter
// than limit as the last one.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = feed.DefaultPageSize
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	posts, err := h.assembler.GetFeed(c.Request().Context(), middleware.UserIDFromContext(c), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

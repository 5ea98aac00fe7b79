package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/buddyscript/backend/internal/feed"
	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository) *PostHandler {
	return &PostHandler{postRepository: postRepo}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
}

// CreatePost creates a text and/or image post owned by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Content == "" && req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post must contain text or image")
	}

	post := &models.Post{
		AuthorID: middleware.UserIDFromContext(c),
		Privacy:  req.Privacy,
	}
	if req.Content != "" {
		post.Content = &req.Content
	}
	if req.ImageURL != "" {
		post.ImageURL = &req.ImageURL
	}
	if post.Privacy == "" {
		post.Privacy = models.PrivacyPublic
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, feed.NewPostDTO(*post))
}

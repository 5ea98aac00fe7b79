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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	assembler         *feed.Assembler
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, assembler *feed.Assembler) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		assembler:         assembler,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
}

// CreateComment adds a comment or a reply to a post the caller can see
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	viewerID := middleware.UserIDFromContext(c)
	if _, err := h.postRepository.GetVisiblePost(ctx, postID, viewerID); err != nil {
		return err
	}
	if req.ParentID != nil {
		parent, err := h.commentRepository.GetCommentByID(ctx, *req.ParentID)
		if err != nil {
			return err
		}
		if parent.PostID != postID {
			return models.NewNotFoundError("comment", *req.ParentID)
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: viewerID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, feed.NewCommentNode(*comment, feed.LikeSummary{}))
}

// GetCommentsByPostID returns the full reply forest of a post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}

	roots, err := h.assembler.GetComments(c.Request().Context(), postID, middleware.UserIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roots)
}

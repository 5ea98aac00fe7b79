package handlers

import (
	"net/http"

	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository    repositories.LikeRepository
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, commentRepo repositories.CommentRepository) *LikeHandler {
	return &LikeHandler{
		likeRepository:    likeRepo,
		postRepository:    postRepo,
		commentRepository: commentRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.TogglePostLike)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// TogglePostLike likes or unlikes a visible post
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return err
	}
	viewerID := middleware.UserIDFromContext(c)
	if _, err := h.postRepository.GetVisiblePost(c.Request().Context(), postID, viewerID); err != nil {
		return err
	}
	return h.toggle(c, viewerID, models.PostTarget(postID))
}

// ToggleCommentLike likes or unlikes a comment on a visible post
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	commentID, err := parseID(c, "id", "comment")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	viewerID := middleware.UserIDFromContext(c)

	comment, err := h.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if _, err := h.postRepository.GetVisiblePost(ctx, comment.PostID, viewerID); err != nil {
		if models.IsNotFound(err) {
			return models.NewNotFoundError("comment", commentID)
		}
		return err
	}
	return h.toggle(c, viewerID, models.CommentTarget(commentID))
}

func (h *LikeHandler) toggle(c echo.Context, userID uint, target models.LikeTarget) error {
	liked, err := h.likeRepository.Toggle(c.Request().Context(), userID, target)
	if err != nil {
		return err
	}
	message := "Unliked"
	if liked {
		message = "Liked"
	}
	return c.JSON(http.StatusOK, models.ToggleLikeResponse{Message: message, IsLiked: liked})
}

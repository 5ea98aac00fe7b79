package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Like and comment totals computed alongside each post row. Post likes are the
// rows with no comment target.
const postWithCountsSelect = `posts.*,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.comment_id IS NULL) AS likes_count,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count`

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	// GetVisiblePost returns the post only if the viewer may see it; otherwise NOT_FOUND.
	GetVisiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error)
	// FindFeedPage returns visible posts newest first with authors and counts loaded.
	FindFeedPage(ctx context.Context, viewerID uint, offset, limit int) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost stores the post and loads its author summary.
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	db := r.db.WithContext(ctx)
	if post.Privacy == "" {
		post.Privacy = models.PrivacyPublic
	}
	if err := db.Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	if err := db.Scopes(selectUserSummary).First(&post.Author, post.AuthorID).Error; err != nil {
		return notFoundOr(err, "user", post.AuthorID)
	}
	return nil
}

func (r *PostgresPostRepository) GetVisiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("id = ? AND (privacy = ? OR author_id = ?)", postID, models.PrivacyPublic, viewerID).
		First(&post).Error
	if err != nil {
		return nil, notFoundOr(err, "post", postID)
	}
	return &post, nil
}

func (r *PostgresPostRepository) FindFeedPage(ctx context.Context, viewerID uint, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCountsSelect).
		Preload("Author", selectUserSummary).
		Where("posts.privacy = ? OR posts.author_id = ?", models.PrivacyPublic, viewerID).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("load feed page: %w", err)
	}
	return posts, nil
}

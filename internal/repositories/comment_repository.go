package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	// FindNewestByPostIDs returns at most one comment per post: the most recently created one.
	FindNewestByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Comment, error)
	// FindByPostID returns every comment on the post, oldest first.
	FindByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment stores the comment and loads its author summary.
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	if err := db.Scopes(selectUserSummary).First(&comment.Author, comment.AuthorID).Error; err != nil {
		return notFoundOr(err, "user", comment.AuthorID)
	}
	return nil
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFoundOr(err, "comment", id)
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) FindNewestByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author", selectUserSummary).
		Where("comments.post_id IN ?", postIDs).
		Where(`comments.id = (SELECT c2.id FROM comments c2 WHERE c2.post_id = comments.post_id
			ORDER BY c2.created_at DESC, c2.id DESC LIMIT 1)`).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load newest comments: %w", err)
	}
	return comments, nil
}

func (r *PostgresCommentRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author", selectUserSummary).
		Where("id IN ?", ids).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments by id: %w", err)
	}
	return comments, nil
}

func (r *PostgresCommentRepository) FindByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author", selectUserSummary).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments for post %d: %w", postID, err)
	}
	return comments, nil
}

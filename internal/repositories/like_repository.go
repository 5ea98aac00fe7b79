package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// FindByTargets returns likes of the given kind on any of ids, oldest first, with users loaded.
	FindByTargets(ctx context.Context, kind models.TargetKind, ids []uint) ([]models.Like, error)
	// Toggle removes the user's like on target if present, otherwise adds it.
	// It reports whether the like exists afterwards.
	Toggle(ctx context.Context, userID uint, target models.LikeTarget) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

func (r *PostgresLikeRepository) FindByTargets(ctx context.Context, kind models.TargetKind, ids []uint) ([]models.Like, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Preload("User", selectUserSummary)
	switch kind {
	case models.TargetPost:
		query = query.Where("post_id IN ? AND comment_id IS NULL", ids)
	case models.TargetComment:
		query = query.Where("comment_id IN ? AND post_id IS NULL", ids)
	default:
		return nil, fmt.Errorf("unknown like target kind %q", kind)
	}

	var likes []models.Like
	if err := query.Order("id ASC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("load %s likes: %w", kind, err)
	}
	return likes, nil
}

// Toggle runs in a transaction; the unique (user, target) indexes absorb a concurrent insert.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, userID uint, target models.LikeTarget) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := targetScope(tx.Where("user_id = ?", userID), target).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		like := models.NewLike(userID, target)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&like).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle like on %s: %w", target, err)
	}
	return liked, nil
}

func targetScope(db *gorm.DB, target models.LikeTarget) *gorm.DB {
	if target.Kind() == models.TargetComment {
		return db.Where("comment_id = ? AND post_id IS NULL", target.ID())
	}
	return db.Where("post_id = ? AND comment_id IS NULL", target.ID())
}

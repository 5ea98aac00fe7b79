// Package feed assembles the post feed and comment threads: it walks reply
// chains back to their roots, builds comment trees and annotates posts and
// comments with like summaries.
package feed

import (
	"context"

	"github.com/anonto42/buddyscript/backend/internal/models"
)

// PostStore is the read side of post storage used by the assembler.
type PostStore interface {
	GetVisiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error)
	FindFeedPage(ctx context.Context, viewerID uint, offset, limit int) ([]models.Post, error)
}

// CommentStore is the read side of comment storage used by the assembler.
type CommentStore interface {
	FindNewestByPostIDs(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Comment, error)
	FindByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
}

// LikeStore loads like rows for a batch of targets of one kind.
type LikeStore interface {
	FindByTargets(ctx context.Context, kind models.TargetKind, ids []uint) ([]models.Like, error)
}

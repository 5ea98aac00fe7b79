package feed

import (
	"context"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
)

// LikeView is one like as shown to clients.
type LikeView struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"userId"`
	User      models.UserSummary `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
}

// LikeSummary is the like state of one target from one viewer's perspective.
type LikeSummary struct {
	Count          int
	ViewerHasLiked bool
	LikedBy        []models.UserSummary
	Likes          []LikeView
}

func emptySummary() LikeSummary {
	return LikeSummary{LikedBy: []models.UserSummary{}, Likes: []LikeView{}}
}

// LikeAggregator turns like rows into per-target summaries with one storage round trip per call.
type LikeAggregator struct {
	likes LikeStore
}

func NewLikeAggregator(likes LikeStore) *LikeAggregator {
	return &LikeAggregator{likes: likes}
}

// Aggregate returns a summary for every id in ids, including ids nobody liked.
// An empty ids slice returns an empty map without touching storage.
func (a *LikeAggregator) Aggregate(ctx context.Context, kind models.TargetKind, ids []uint, viewerID uint) (map[uint]LikeSummary, error) {
	ids = uniqueIDs(ids)
	out := make(map[uint]LikeSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := a.likes.FindByTargets(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		out[id] = emptySummary()
	}
	for _, like := range rows {
		target := like.Target()
		if target.Kind() != kind {
			continue
		}
		summary, ok := out[target.ID()]
		if !ok {
			continue
		}
		user := like.User.Summary()
		if user.ID == 0 {
			user.ID = like.UserID
		}
		summary.Count++
		summary.LikedBy = append(summary.LikedBy, user)
		summary.Likes = append(summary.Likes, LikeView{
			ID:        like.ID,
			UserID:    like.UserID,
			User:      user,
			CreatedAt: like.CreatedAt,
		})
		if like.UserID == viewerID {
			summary.ViewerHasLiked = true
		}
		out[target.ID()] = summary
	}
	return out, nil
}

// uniqueIDs drops duplicates and keeps first-seen order.
func uniqueIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

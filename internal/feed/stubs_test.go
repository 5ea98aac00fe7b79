package feed

import (
	"context"
	"sync"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
)

type stubPostStore struct {
	getVisible func(ctx context.Context, postID, viewerID uint) (*models.Post, error)
	findPage   func(ctx context.Context, viewerID uint, offset, limit int) ([]models.Post, error)
}

func (s *stubPostStore) GetVisiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	if s.getVisible == nil {
		return &models.Post{ID: postID, Privacy: models.PrivacyPublic}, nil
	}
	return s.getVisible(ctx, postID, viewerID)
}

func (s *stubPostStore) FindFeedPage(ctx context.Context, viewerID uint, offset, limit int) ([]models.Post, error) {
	if s.findPage == nil {
		return nil, nil
	}
	return s.findPage(ctx, viewerID, offset, limit)
}

// memCommentStore serves comments from a slice and counts FindByIDs round trips.
type memCommentStore struct {
	comments  []models.Comment
	byIDCalls int
	byIDErr   error
	newestErr error
}

func (s *memCommentStore) FindNewestByPostIDs(_ context.Context, postIDs []uint) ([]models.Comment, error) {
	if s.newestErr != nil {
		return nil, s.newestErr
	}
	newest := map[uint]models.Comment{}
	for _, c := range s.comments {
		if !containsID(postIDs, c.PostID) {
			continue
		}
		cur, ok := newest[c.PostID]
		if !ok || c.CreatedAt.After(cur.CreatedAt) || (c.CreatedAt.Equal(cur.CreatedAt) && c.ID > cur.ID) {
			newest[c.PostID] = c
		}
	}
	var out []models.Comment
	for _, id := range postIDs {
		if c, ok := newest[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCommentStore) FindByIDs(_ context.Context, ids []uint) ([]models.Comment, error) {
	s.byIDCalls++
	if s.byIDErr != nil {
		return nil, s.byIDErr
	}
	var out []models.Comment
	for _, c := range s.comments {
		if containsID(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memCommentStore) FindByPostID(_ context.Context, postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

// memLikeStore is called from concurrent aggregations.
type memLikeStore struct {
	mu    sync.Mutex
	likes []models.Like
	calls map[models.TargetKind]int
	err   error
}

func (s *memLikeStore) FindByTargets(_ context.Context, kind models.TargetKind, ids []uint) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[models.TargetKind]int{}
	}
	s.calls[kind]++
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Like
	for _, l := range s.likes {
		t := l.Target()
		if t.Kind() == kind && containsID(ids, t.ID()) {
			out = append(out, l)
		}
	}
	return out, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func uintPtr(v uint) *uint { return &v }

func user(id uint) models.User {
	return models.User{ID: id, FirstName: "User", LastName: "Number"}
}

func comment(id, postID uint, parent *uint, minute int) models.Comment {
	return models.Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  1,
		Author:    user(1),
		ParentID:  parent,
		Content:   "comment",
		CreatedAt: at(minute),
	}
}

func postLike(id, userID, postID uint) models.Like {
	l := models.NewLike(userID, models.PostTarget(postID))
	l.ID = id
	l.User = user(userID)
	return l
}

func commentLike(id, userID, commentID uint) models.Like {
	l := models.NewLike(userID, models.CommentTarget(commentID))
	l.ID = id
	l.User = user(userID)
	return l
}

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreatePostDefaultsAndAuthor(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	author := seedUser(t, db, "Ada", "ada@example.com")

	content := "first!"
	post := &models.Post{AuthorID: author.ID, Content: &content}
	require.NoError(t, repo.CreatePost(context.Background(), post))

	assert.NotZero(t, post.ID)
	assert.Equal(t, models.PrivacyPublic, post.Privacy)
	assert.Equal(t, "Ada", post.Author.FirstName)
	assert.Empty(t, post.Author.Email, "only summary columns are loaded")
}

func TestPostRepository_GetVisiblePost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "Owner", "owner@example.com")
	other := seedUser(t, db, "Other", "other@example.com")

	public := seedPost(t, db, owner.ID, models.PrivacyPublic, base)
	private := seedPost(t, db, owner.ID, models.PrivacyPrivate, base.Add(time.Second))

	tests := []struct {
		name    string
		postID  uint
		viewer  uint
		visible bool
	}{
		{"public to stranger", public.ID, other.ID, true},
		{"private to owner", private.ID, owner.ID, true},
		{"private to stranger", private.ID, other.ID, false},
		{"missing post", 9999, owner.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := repo.GetVisiblePost(ctx, tt.postID, tt.viewer)
			if tt.visible {
				require.NoError(t, err)
				assert.Equal(t, tt.postID, post.ID)
				return
			}
			assert.True(t, models.IsNotFound(err))
		})
	}
}

func TestPostRepository_FindFeedPage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	viewer := seedUser(t, db, "Viewer", "viewer@example.com")
	other := seedUser(t, db, "Other", "other@example.com")

	oldest := seedPost(t, db, other.ID, models.PrivacyPublic, base)
	hidden := seedPost(t, db, other.ID, models.PrivacyPrivate, base.Add(1*time.Second))
	own := seedPost(t, db, viewer.ID, models.PrivacyPrivate, base.Add(2*time.Second))
	newest := seedPost(t, db, other.ID, models.PrivacyPublic, base.Add(3*time.Second))

	// Counts: two post likes and one comment like with a colliding numeric ID.
	c := seedComment(t, db, newest.ID, viewer.ID, nil, base.Add(4*time.Second))
	seedComment(t, db, newest.ID, other.ID, ptr(c.ID), base.Add(5*time.Second))
	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, PostID: ptr(newest.ID)}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: other.ID, PostID: ptr(newest.ID)}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, CommentID: ptr(newest.ID)}).Error)

	page, err := repo.FindFeedPage(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)

	ids := make([]uint, len(page))
	for i, p := range page {
		ids[i] = p.ID
	}
	assert.Equal(t, []uint{newest.ID, own.ID, oldest.ID}, ids)
	assert.NotContains(t, ids, hidden.ID)

	assert.Equal(t, int64(2), page[0].LikesCount)
	assert.Equal(t, int64(2), page[0].CommentsCount)
	assert.Equal(t, "Other", page[0].Author.FirstName)
	assert.Zero(t, page[2].LikesCount)

	second, err := repo.FindFeedPage(ctx, viewer.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, oldest.ID, second[0].ID)

	beyond, err := repo.FindFeedPage(ctx, viewer.ID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestPostRepository_FindFeedPageTieBreaksOnID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	author := seedUser(t, db, "Ada", "ada@example.com")

	first := seedPost(t, db, author.ID, models.PrivacyPublic, base)
	second := seedPost(t, db, author.ID, models.PrivacyPublic, base)

	page, err := repo.FindFeedPage(context.Background(), author.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, second.ID, page[0].ID)
	assert.Equal(t, first.ID, page[1].ID)
}

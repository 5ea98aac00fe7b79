package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")
	post := seedPost(t, db, author.ID, models.PrivacyPublic, base)

	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Content: "nice"}
	require.NoError(t, repo.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)
	assert.Equal(t, "Ada", comment.Author.FirstName)

	got, err := repo.GetCommentByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.PostID)

	_, err = repo.GetCommentByID(ctx, 4242)
	assert.True(t, models.IsNotFound(err))
}

func TestCommentRepository_FindNewestByPostIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)
	author := seedUser(t, db, "Ada", "ada@example.com")
	p1 := seedPost(t, db, author.ID, models.PrivacyPublic, base)
	p2 := seedPost(t, db, author.ID, models.PrivacyPublic, base)
	p3 := seedPost(t, db, author.ID, models.PrivacyPublic, base)

	seedComment(t, db, p1.ID, author.ID, nil, base.Add(1*time.Second))
	newest1 := seedComment(t, db, p1.ID, author.ID, nil, base.Add(3*time.Second))
	seedComment(t, db, p1.ID, author.ID, nil, base.Add(2*time.Second))
	// Same timestamp: the higher ID wins.
	seedComment(t, db, p2.ID, author.ID, nil, base.Add(time.Second))
	newest2 := seedComment(t, db, p2.ID, author.ID, nil, base.Add(time.Second))

	comments, err := repo.FindNewestByPostIDs(context.Background(), []uint{p1.ID, p2.ID, p3.ID})
	require.NoError(t, err)
	require.Len(t, comments, 2)

	byPost := map[uint]uint{}
	for _, c := range comments {
		byPost[c.PostID] = c.ID
		assert.Equal(t, "Ada", c.Author.FirstName)
	}
	assert.Equal(t, newest1.ID, byPost[p1.ID])
	assert.Equal(t, newest2.ID, byPost[p2.ID])
}

func TestCommentRepository_FindByIDsAndPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")
	post := seedPost(t, db, author.ID, models.PrivacyPublic, base)
	other := seedPost(t, db, author.ID, models.PrivacyPublic, base)

	late := seedComment(t, db, post.ID, author.ID, nil, base.Add(5*time.Second))
	early := seedComment(t, db, post.ID, author.ID, nil, base.Add(1*time.Second))
	reply := seedComment(t, db, post.ID, author.ID, ptr(early.ID), base.Add(2*time.Second))
	seedComment(t, db, other.ID, author.ID, nil, base)

	byIDs, err := repo.FindByIDs(ctx, []uint{reply.ID, early.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	thread, err := repo.FindByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, []uint{early.ID, reply.ID, late.ID}, []uint{thread[0].ID, thread[1].ID, thread[2].ID})
	assert.Equal(t, early.ID, *thread[1].ParentID)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
	none, err = repo.FindNewestByPostIDs(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestLikeRepository_ToggleRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "Ada", "ada@example.com")
	post := seedPost(t, db, user.ID, models.PrivacyPublic, base)

	liked, err := repo.Toggle(ctx, user.ID, models.PostTarget(post.ID))
	require.NoError(t, err)
	assert.True(t, liked)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	liked, err = repo.Toggle(ctx, user.ID, models.PostTarget(post.ID))
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLikeRepository_PostAndCommentWithSameIDStaySeparate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "Ada", "ada@example.com")
	post := seedPost(t, db, user.ID, models.PrivacyPublic, base)
	comment := seedComment(t, db, post.ID, user.ID, nil, base)
	require.Equal(t, post.ID, comment.ID, "fresh tables start both sequences at 1")

	liked, err := repo.Toggle(ctx, user.ID, models.PostTarget(post.ID))
	require.NoError(t, err)
	require.True(t, liked)
	liked, err = repo.Toggle(ctx, user.ID, models.CommentTarget(comment.ID))
	require.NoError(t, err)
	require.True(t, liked, "a post like must not satisfy a comment toggle")

	postLikes, err := repo.FindByTargets(ctx, models.TargetPost, []uint{post.ID})
	require.NoError(t, err)
	require.Len(t, postLikes, 1)
	assert.Equal(t, models.PostTarget(post.ID), postLikes[0].Target())
	assert.Equal(t, "Ada", postLikes[0].User.FirstName)

	commentLikes, err := repo.FindByTargets(ctx, models.TargetComment, []uint{comment.ID})
	require.NoError(t, err)
	require.Len(t, commentLikes, 1)
	assert.Equal(t, models.CommentTarget(comment.ID), commentLikes[0].Target())

	// Un-liking the comment leaves the post like in place.
	liked, err = repo.Toggle(ctx, user.ID, models.CommentTarget(comment.ID))
	require.NoError(t, err)
	assert.False(t, liked)
	postLikes, err = repo.FindByTargets(ctx, models.TargetPost, []uint{post.ID})
	require.NoError(t, err)
	assert.Len(t, postLikes, 1)
}

func TestLikeRepository_FindByTargetsOrdersAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresLikeRepository(db)
	ctx := context.Background()
	ada := seedUser(t, db, "Ada", "ada@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	p1 := seedPost(t, db, ada.ID, models.PrivacyPublic, base)
	p2 := seedPost(t, db, ada.ID, models.PrivacyPublic, base)
	p3 := seedPost(t, db, ada.ID, models.PrivacyPublic, base)

	for _, step := range []struct {
		user uint
		post uint
	}{{bob.ID, p2.ID}, {ada.ID, p1.ID}, {ada.ID, p2.ID}, {bob.ID, p3.ID}} {
		_, err := repo.Toggle(ctx, step.user, models.PostTarget(step.post))
		require.NoError(t, err)
	}

	likes, err := repo.FindByTargets(ctx, models.TargetPost, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, likes, 3)
	for i := 1; i < len(likes); i++ {
		assert.Less(t, likes[i-1].ID, likes[i].ID)
	}

	none, err := repo.FindByTargets(ctx, models.TargetComment, []uint{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.FindByTargets(ctx, models.TargetKind("story"), []uint{1})
	assert.Error(t, err)
}

func TestLikeRepository_SingleTargetCheck(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "Ada", "ada@example.com")

	err := db.Create(&models.Like{UserID: user.ID, PostID: ptr(1), CommentID: ptr(1)}).Error
	assert.Error(t, err)
	err = db.Create(&models.Like{UserID: user.ID}).Error
	assert.Error(t, err)
}

func TestLikeRepository_OneLikePerUserAndTarget(t *testing.T) {
	db := setupTestDB(t)
	ada := seedUser(t, db, "Ada", "ada@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	post := seedPost(t, db, ada.ID, models.PrivacyPublic, base)
	comment := seedComment(t, db, post.ID, ada.ID, nil, base)

	for _, target := range []models.LikeTarget{models.PostTarget(post.ID), models.CommentTarget(comment.ID)} {
		t.Run(target.String(), func(t *testing.T) {
			// Two inserts racing past Toggle's delete land on the same conflict path.
			for i := 0; i < 2; i++ {
				like := models.NewLike(ada.ID, target)
				require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&like).Error)
			}

			dup := models.NewLike(ada.ID, target)
			err := db.Omit(clause.Associations).Create(&dup).Error
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

			other := models.NewLike(bob.ID, target)
			require.NoError(t, db.Omit(clause.Associations).Create(&other).Error)

			var n int64
			require.NoError(t, targetScope(db.Model(&models.Like{}).Where("user_id = ?", ada.ID), target).Count(&n).Error)
			assert.Equal(t, int64(1), n)
			require.NoError(t, targetScope(db.Model(&models.Like{}), target).Count(&n).Error)
			assert.Equal(t, int64(2), n)
		})
	}
}

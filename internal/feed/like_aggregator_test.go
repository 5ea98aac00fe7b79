package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_EmptyInputSkipsStorage(t *testing.T) {
	store := &memLikeStore{}
	agg := NewLikeAggregator(store)

	out, err := agg.Aggregate(context.Background(), models.TargetPost, nil, 1)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, store.calls[models.TargetPost])
}

func TestAggregate_GroupsByTarget(t *testing.T) {
	store := &memLikeStore{likes: []models.Like{
		postLike(1, 1, 10),
		postLike(2, 2, 10),
		postLike(3, 2, 11),
		commentLike(4, 1, 10), // same numeric ID, other kind
	}}
	agg := NewLikeAggregator(store)

	out, err := agg.Aggregate(context.Background(), models.TargetPost, []uint{10, 11, 12}, 1)

	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, 2, out[10].Count)
	assert.True(t, out[10].ViewerHasLiked)
	assert.Equal(t, []uint{1, 2}, []uint{out[10].LikedBy[0].ID, out[10].LikedBy[1].ID})
	require.Len(t, out[10].Likes, 2)
	assert.Equal(t, uint(1), out[10].Likes[0].ID)

	assert.Equal(t, 1, out[11].Count)
	assert.False(t, out[11].ViewerHasLiked)

	assert.Zero(t, out[12].Count)
	assert.False(t, out[12].ViewerHasLiked)
	assert.NotNil(t, out[12].LikedBy)
	assert.Equal(t, 1, store.calls[models.TargetPost])
}

func TestAggregate_CountsMatchStoredRows(t *testing.T) {
	var likes []models.Like
	var id uint
	for target := uint(1); target <= 5; target++ {
		for u := uint(1); u <= target; u++ {
			id++
			likes = append(likes, commentLike(id, u, target))
		}
	}
	agg := NewLikeAggregator(&memLikeStore{likes: likes})

	out, err := agg.Aggregate(context.Background(), models.TargetComment, []uint{1, 2, 3, 4, 5, 3}, 4)

	require.NoError(t, err)
	total := 0
	for target, summary := range out {
		total += summary.Count
		assert.Equal(t, target >= 4, summary.ViewerHasLiked, "target %d", target)
	}
	assert.Equal(t, len(likes), total)
}

func TestAggregate_PropagatesStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	agg := NewLikeAggregator(&memLikeStore{err: boom})

	out, err := agg.Aggregate(context.Background(), models.TargetComment, []uint{1}, 1)

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, out)
}

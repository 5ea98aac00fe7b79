package seed

import (
	"context"
	"testing"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, Options{NumUsers: 4, NumPosts: 8, MaxComments: 3, ChainDepth: 13, Seed: 42}, nil)

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Users)
	assert.Equal(t, 8, summary.Posts)
	assert.GreaterOrEqual(t, summary.Comments, 13)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 4)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte(DefaultPassword)))

	var private int64
	require.NoError(t, db.Model(&models.Post{}).Where("privacy = ?", models.PrivacyPrivate).Count(&private).Error)
	assert.Equal(t, int64(2), private)

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Count(&likes).Error)
	assert.Equal(t, int64(summary.Likes), likes)

	// Every reply points at a comment on the same post.
	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	byID := make(map[uint]models.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	deepest := 0
	for _, c := range comments {
		depth := 0
		for cur := c; cur.ParentID != nil; cur = byID[*cur.ParentID] {
			parent, ok := byID[*cur.ParentID]
			require.True(t, ok)
			assert.Equal(t, c.PostID, parent.PostID)
			depth++
		}
		deepest = max(deepest, depth)
	}
	assert.GreaterOrEqual(t, deepest, 12)
}

func TestClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, Options{NumUsers: 2, NumPosts: 2, MaxComments: 2, Seed: 7}, nil)
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, ClearAll(db))
	for _, model := range []interface{}{&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
}

func TestSeederWithoutUsers(t *testing.T) {
	db := setupTestDB(t)
	summary, err := NewSeeder(db, Options{NumPosts: 5}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

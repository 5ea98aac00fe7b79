// Package seed fills a development database with users, posts, comment
// threads and likes.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "Password123!"

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxComments int
	// ChainDepth is the length of the single reply chain seeded on the first
	// public post. Set it above the feed ancestor bound to exercise truncation.
	ChainDepth int
	Seed       int64
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

type Seeder struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	likes    repositories.LikeRepository
	faker    *gofakeit.Faker
	logger   *slog.Logger
	opts     Options
}

func NewSeeder(db *gorm.DB, opts Options, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:    repositories.NewPostgresUserRepository(db),
		posts:    repositories.NewPostgresPostRepository(db),
		comments: repositories.NewPostgresCommentRepository(db),
		likes:    repositories.NewPostgresLikeRepository(db),
		faker:    gofakeit.New(opts.Seed),
		logger:   logger,
		opts:     opts,
	}
}

// ClearAll removes every seeded table's rows, children first.
func ClearAll(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Like{}, &models.Comment{}, &models.Post{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	users, err := s.seedUsers(ctx)
	if err != nil {
		return summary, err
	}
	summary.Users = len(users)
	if len(users) == 0 {
		return summary, nil
	}

	posts, err := s.seedPosts(ctx, users)
	if err != nil {
		return summary, err
	}
	summary.Posts = len(posts)

	var comments []models.Comment
	for _, post := range posts {
		thread, err := s.seedThread(ctx, post, users)
		if err != nil {
			return summary, err
		}
		comments = append(comments, thread...)
	}
	chain, err := s.seedChain(ctx, posts, users)
	if err != nil {
		return summary, err
	}
	comments = append(comments, chain...)
	summary.Comments = len(comments)

	for _, post := range posts {
		n, err := s.seedLikes(ctx, models.PostTarget(post.ID), users)
		if err != nil {
			return summary, err
		}
		summary.Likes += n
	}
	for _, comment := range comments {
		n, err := s.seedLikes(ctx, models.CommentTarget(comment.ID), users)
		if err != nil {
			return summary, err
		}
		summary.Likes += n
	}

	s.logger.Info("seed complete",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("comments", summary.Comments),
		slog.Int("likes", summary.Likes),
	)
	return summary, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]models.User, error) {
	// One hash for everyone keeps large runs fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		user := models.User{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s.%s.%d@buddyscript.dev", strings.ToLower(first), strings.ToLower(last), i+1),
			Password:  string(hash),
		}
		if err := s.users.CreateUser(ctx, &user); err != nil {
			return nil, fmt.Errorf("create user %d: %w", i+1, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedPosts(ctx context.Context, users []models.User) ([]models.Post, error) {
	posts := make([]models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		content := s.faker.Paragraph(1, s.faker.Number(1, 3), 12, " ")
		post := models.Post{
			AuthorID: users[s.faker.Number(0, len(users)-1)].ID,
			Content:  &content,
			Privacy:  models.PrivacyPublic,
		}
		if i%4 == 3 {
			post.Privacy = models.PrivacyPrivate
		}
		if s.faker.Number(1, 5) == 1 {
			image := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.UUID())
			post.ImageURL = &image
		}
		if err := s.posts.CreatePost(ctx, &post); err != nil {
			return nil, fmt.Errorf("create post %d: %w", i+1, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// seedThread adds up to MaxComments comments to a post. Each one replies to
// an earlier comment on the same post about half the time.
func (s *Seeder) seedThread(ctx context.Context, post models.Post, users []models.User) ([]models.Comment, error) {
	if s.opts.MaxComments <= 0 {
		return nil, nil
	}
	n := s.faker.Number(0, s.opts.MaxComments)
	thread := make([]models.Comment, 0, n)
	for i := 0; i < n; i++ {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: users[s.faker.Number(0, len(users)-1)].ID,
			Content:  s.faker.Sentence(s.faker.Number(3, 15)),
		}
		if len(thread) > 0 && s.faker.Bool() {
			parentID := thread[s.faker.Number(0, len(thread)-1)].ID
			comment.ParentID = &parentID
		}
		if err := s.comments.CreateComment(ctx, &comment); err != nil {
			return nil, fmt.Errorf("create comment on post %d: %w", post.ID, err)
		}
		thread = append(thread, comment)
	}
	return thread, nil
}

func (s *Seeder) seedChain(ctx context.Context, posts []models.Post, users []models.User) ([]models.Comment, error) {
	if s.opts.ChainDepth <= 0 {
		return nil, nil
	}
	var target *models.Post
	for i := range posts {
		if posts[i].Privacy == models.PrivacyPublic {
			target = &posts[i]
			break
		}
	}
	if target == nil {
		return nil, nil
	}

	chain := make([]models.Comment, 0, s.opts.ChainDepth)
	var parentID *uint
	for depth := 0; depth < s.opts.ChainDepth; depth++ {
		comment := models.Comment{
			PostID:   target.ID,
			AuthorID: users[depth%len(users)].ID,
			Content:  fmt.Sprintf("Reply at depth %d: %s", depth, s.faker.Phrase()),
			ParentID: parentID,
		}
		if err := s.comments.CreateComment(ctx, &comment); err != nil {
			return nil, fmt.Errorf("create chain comment %d: %w", depth, err)
		}
		id := comment.ID
		parentID = &id
		chain = append(chain, comment)
	}
	return chain, nil
}

// seedLikes has a random distinct subset of users like the target.
func (s *Seeder) seedLikes(ctx context.Context, target models.LikeTarget, users []models.User) (int, error) {
	n := s.faker.Number(0, min(len(users), 8))
	order := s.faker.Rand.Perm(len(users))
	created := 0
	for _, idx := range order[:n] {
		liked, err := s.likes.Toggle(ctx, users[idx].ID, target)
		if err != nil {
			return created, fmt.Errorf("like %s: %w", target, err)
		}
		if liked {
			created++
		}
	}
	return created, nil
}

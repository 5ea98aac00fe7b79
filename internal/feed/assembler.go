package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxAncestorDepth = 10
	DefaultPageSize         = 10
)

// PostCounts mirrors the `_count` object clients read.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// PostDTO is one feed entry.
type PostDTO struct {
	ID        uint                 `json:"id"`
	AuthorID  uint                 `json:"authorId"`
	Author    models.UserSummary   `json:"author"`
	Content   *string              `json:"content"`
	ImageURL  *string              `json:"imageUrl"`
	Privacy   models.Privacy       `json:"privacy"`
	CreatedAt time.Time            `json:"createdAt"`
	Count     PostCounts           `json:"_count"`
	Likes     []LikeView           `json:"likes"`
	IsLiked   bool                 `json:"isLiked"`
	LikedBy   []models.UserSummary `json:"likedBy"`
	Comments  []*CommentNode       `json:"comments"`
}

func newPostDTO(p models.Post, likes LikeSummary, comments []*CommentNode) PostDTO {
	if likes.Likes == nil {
		likes = emptySummary()
	}
	return PostDTO{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Author:    p.Author.Summary(),
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		Privacy:   p.Privacy,
		CreatedAt: p.CreatedAt,
		Count:     PostCounts{Likes: p.LikesCount, Comments: p.CommentsCount},
		Likes:     likes.Likes,
		IsLiked:   likes.ViewerHasLiked,
		LikedBy:   likes.LikedBy,
		Comments:  comments,
	}
}

// NewPostDTO presents a freshly created post, which has no likes or comments yet.
func NewPostDTO(p models.Post) PostDTO {
	return newPostDTO(p, emptySummary(), []*CommentNode{})
}

type Option func(*Assembler)

// WithMaxAncestorDepth bounds the number of storage round trips the ancestor walk may take.
func WithMaxAncestorDepth(depth int) Option {
	return func(a *Assembler) {
		if depth >= 0 {
			a.maxAncestorDepth = depth
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Assembler builds feed pages and full comment threads for a viewer.
// It holds no per-request state and is safe for concurrent use.
type Assembler struct {
	posts            PostStore
	comments         CommentStore
	likes            *LikeAggregator
	maxAncestorDepth int
	logger           *slog.Logger
}

func NewAssembler(posts PostStore, comments CommentStore, likes LikeStore, opts ...Option) *Assembler {
	a := &Assembler{
		posts:            posts,
		comments:         comments,
		likes:            NewLikeAggregator(likes),
		maxAncestorDepth: DefaultMaxAncestorDepth,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetFeed returns one page of posts visible to the viewer, newest first. Each post
// carries its like state and its newest comment placed inside the recovered reply chain.
// Out-of-range page and limit fall back to the first page and the default size.
func (a *Assembler) GetFeed(ctx context.Context, viewerID uint, page, limit int) ([]PostDTO, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	posts, err := a.posts.FindFeedPage(ctx, viewerID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []PostDTO{}, nil
	}

	postIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	previews, err := a.comments.FindNewestByPostIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	working, err := a.recoverAncestors(ctx, previews)
	if err != nil {
		return nil, err
	}
	commentIDs := make([]uint, 0, len(working))
	for _, c := range working {
		commentIDs = append(commentIDs, c.ID)
	}

	var postLikes, commentLikes map[uint]LikeSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		postLikes, err = a.likes.Aggregate(gctx, models.TargetPost, postIDs, viewerID)
		return err
	})
	g.Go(func() error {
		var err error
		commentLikes, err = a.likes.Aggregate(gctx, models.TargetComment, commentIDs, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forest := BuildForest(commentNodes(working, commentLikes))
	if n := len(forest.Orphans); n > 0 {
		orphanedComments.WithLabelValues("feed").Add(float64(n))
	}

	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostDTO(p, postLikes[p.ID], forest.RootsFor(p.ID)))
	}
	return out, nil
}

// GetComments returns the complete reply forest of one post. A post that does not
// exist or that the viewer may not see yields an empty list.
func (a *Assembler) GetComments(ctx context.Context, postID, viewerID uint) ([]*CommentNode, error) {
	if _, err := a.posts.GetVisiblePost(ctx, postID, viewerID); err != nil {
		if models.IsNotFound(err) {
			return []*CommentNode{}, nil
		}
		return nil, err
	}

	comments, err := a.comments.FindByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	likes, err := a.likes.Aggregate(ctx, models.TargetComment, ids, viewerID)
	if err != nil {
		return nil, err
	}

	forest := BuildForest(commentNodes(comments, likes))
	if n := len(forest.Orphans); n > 0 {
		// the whole thread was loaded, so a detached reply points at bad data
		orphanedComments.WithLabelValues("thread").Add(float64(n))
		a.logger.WarnContext(ctx, "comments re-rooted",
			slog.Uint64("post_id", uint64(postID)),
			slog.Any("comment_ids", forest.Orphans),
		)
	}
	return forest.RootsFor(postID), nil
}

// recoverAncestors widens the preview set one parent level per round trip until no
// unresolved parents remain or the depth bound is hit. Ancestors past the bound are
// left out and the shallowest recovered comment becomes the root of its chain.
func (a *Assembler) recoverAncestors(ctx context.Context, previews []models.Comment) ([]models.Comment, error) {
	working := make([]models.Comment, 0, len(previews))
	resolved := make(map[uint]struct{}, len(previews))
	for _, c := range previews {
		if _, ok := resolved[c.ID]; ok {
			continue
		}
		resolved[c.ID] = struct{}{}
		working = append(working, c)
	}

	frontier := working
	rounds := 0
	for rounds < a.maxAncestorDepth {
		parentIDs := unresolvedParents(frontier, resolved)
		if len(parentIDs) == 0 {
			break
		}
		parents, err := a.comments.FindByIDs(ctx, parentIDs)
		rounds++
		if err != nil {
			return nil, err
		}

		wanted := parentPosts(frontier)
		next := make([]models.Comment, 0, len(parents))
		for _, p := range parents {
			if _, ok := resolved[p.ID]; ok {
				continue
			}
			resolved[p.ID] = struct{}{}
			// A parent on another post would surface as a stray root under that
			// post, so the chain stops here and the child is re-rooted.
			if _, ok := wanted[p.ID][p.PostID]; !ok {
				a.logger.WarnContext(ctx, "reply parent on another post",
					slog.Uint64("parent_id", uint64(p.ID)),
					slog.Uint64("parent_post_id", uint64(p.PostID)),
				)
				continue
			}
			next = append(next, p)
		}
		if len(next) == 0 {
			break
		}
		working = append(working, next...)
		frontier = next
	}

	ancestorRounds.Observe(float64(rounds))
	if rounds == a.maxAncestorDepth {
		if missing := unresolvedParents(frontier, resolved); len(missing) > 0 {
			ancestorTruncations.Inc()
			a.logger.DebugContext(ctx, "ancestor walk truncated",
				slog.Int("rounds", rounds),
				slog.Any("missing_parent_ids", missing),
			)
		}
	}
	return working, nil
}

func unresolvedParents(frontier []models.Comment, resolved map[uint]struct{}) []uint {
	var ids []uint
	queued := make(map[uint]struct{})
	for _, c := range frontier {
		if c.ParentID == nil {
			continue
		}
		id := *c.ParentID
		if _, ok := resolved[id]; ok {
			continue
		}
		if _, ok := queued[id]; ok {
			continue
		}
		queued[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// parentPosts maps each parent ID referenced by frontier to the posts of the
// children that reference it.
func parentPosts(frontier []models.Comment) map[uint]map[uint]struct{} {
	out := make(map[uint]map[uint]struct{})
	for _, c := range frontier {
		if c.ParentID == nil {
			continue
		}
		if out[*c.ParentID] == nil {
			out[*c.ParentID] = make(map[uint]struct{})
		}
		out[*c.ParentID][c.PostID] = struct{}{}
	}
	return out
}

func commentNodes(comments []models.Comment, likes map[uint]LikeSummary) []*CommentNode {
	nodes := make([]*CommentNode, 0, len(comments))
	for _, c := range comments {
		nodes = append(nodes, NewCommentNode(c, likes[c.ID]))
	}
	return nodes
}

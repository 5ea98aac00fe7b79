package feed

import (
	"sort"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/models"
)

// CommentNode is a comment with its like summary and nested replies.
type CommentNode struct {
	ID         uint                 `json:"id"`
	PostID     uint                 `json:"postId"`
	ParentID   *uint                `json:"parentId"`
	Content    string               `json:"content"`
	Author     models.UserSummary   `json:"author"`
	CreatedAt  time.Time            `json:"createdAt"`
	LikesCount int                  `json:"likesCount"`
	IsLiked    bool                 `json:"isLiked"`
	LikedBy    []models.UserSummary `json:"likedBy"`
	Replies    []*CommentNode       `json:"replies"`
}

// NewCommentNode builds a detached node; replies are filled by BuildForest.
func NewCommentNode(c models.Comment, likes LikeSummary) *CommentNode {
	likedBy := likes.LikedBy
	if likedBy == nil {
		likedBy = []models.UserSummary{}
	}
	return &CommentNode{
		ID:         c.ID,
		PostID:     c.PostID,
		ParentID:   c.ParentID,
		Content:    c.Content,
		Author:     c.Author.Summary(),
		CreatedAt:  c.CreatedAt,
		LikesCount: likes.Count,
		IsLiked:    likes.ViewerHasLiked,
		LikedBy:    likedBy,
		Replies:    []*CommentNode{},
	}
}

// Forest is the result of arranging a flat comment set into trees.
type Forest struct {
	// Roots in ascending creation order.
	Roots []*CommentNode
	// Orphans lists comments that name a parent but were placed at the root:
	// the parent is absent, on another post, or linking to it would close a cycle.
	Orphans []uint
}

// RootsFor returns the roots that belong to postID, keeping their order.
func (f Forest) RootsFor(postID uint) []*CommentNode {
	out := []*CommentNode{}
	for _, root := range f.Roots {
		if root.PostID == postID {
			out = append(out, root)
		}
	}
	return out
}

// BuildForest arranges nodes into trees. Siblings and roots are ordered by
// CreatedAt ascending, ties keep input order. Every distinct node appears exactly
// once. Nodes with a repeated ID after the first are dropped. Existing Replies on
// the input nodes are discarded, so building the same set twice gives the same shape.
func BuildForest(nodes []*CommentNode) Forest {
	sorted := make([]*CommentNode, 0, len(nodes))
	index := make(map[uint]*CommentNode, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, dup := index[n.ID]; dup {
			continue
		}
		index[n.ID] = n
		n.Replies = []*CommentNode{}
		sorted = append(sorted, n)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	forest := Forest{Roots: []*CommentNode{}, Orphans: []uint{}}
	attachedTo := make(map[uint]uint, len(sorted))
	for _, n := range sorted {
		if n.ParentID != nil {
			parent, ok := index[*n.ParentID]
			if ok && parent.PostID == n.PostID && !closesCycle(n.ID, parent.ID, attachedTo) {
				parent.Replies = append(parent.Replies, n)
				attachedTo[n.ID] = parent.ID
				continue
			}
			forest.Orphans = append(forest.Orphans, n.ID)
		}
		forest.Roots = append(forest.Roots, n)
	}
	return forest
}

// closesCycle reports whether hanging child under parent would make child its own ancestor.
func closesCycle(child, parent uint, attachedTo map[uint]uint) bool {
	for cur, ok := parent, true; ok; cur, ok = attachedTo[cur] {
		if cur == child {
			return true
		}
	}
	return false
}

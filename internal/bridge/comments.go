package bridge

import (
	"github.com/jonwraymond/redditmcp/internal/models"
	"github.com/jonwraymond/redditmcp/internal/reddit"
)

// DefaultCommentDepth is the depth budget used when the caller does not
// ask for one.
const DefaultCommentDepth = 3

// buildCommentTree converts one raw node into a Comment, recursing into
// children with one less level of depth budget. An exhausted budget or an
// absent node yields nil, which callers drop silently. The explicit
// counter guarantees termination even on malformed upstream data.
func buildCommentTree(node *reddit.CommentNode, depth int) *models.Comment {
	if depth <= 0 || node == nil {
		return nil
	}

	replies := make([]models.Comment, 0, len(node.Children))
	for _, child := range node.Children {
		if c := buildCommentTree(child, depth-1); c != nil {
			replies = append(replies, *c)
		}
	}

	return &models.Comment{
		ID:      node.Value.ID,
		Author:  displayName(node.Value.Author),
		Body:    node.Value.Body,
		Score:   node.Value.Score,
		Replies: replies,
	}
}

// buildCommentForest converts the top-level nodes in upstream order.
// Order is a contract: comments are never re-sorted by score or time.
func buildCommentForest(nodes []*reddit.CommentNode, depth int) []models.Comment {
	comments := make([]models.Comment, 0, len(nodes))
	for _, node := range nodes {
		if c := buildCommentTree(node, depth); c != nil {
			comments = append(comments, *c)
		}
	}
	return comments
}

// Package models defines the uniform records the bridge produces.
//
// Every record is a plain value object: built once by the normalization
// layer, never mutated afterwards, and serialized to the tool surface
// as-is. Field names on the wire match the JSON tags below.
package models

// PostType is the closed set of post kinds the bridge distinguishes.
// Unrecognized upstream kinds map to PostTypeUnknown, never to an error.
type PostType string

const (
	PostTypeLink    PostType = "link"
	PostTypeText    PostType = "text"
	PostTypeGallery PostType = "gallery"
	PostTypeUnknown PostType = "unknown"
)

// Post is a normalized submission.
//
// Content's meaning is fully determined by PostType: the permalink for a
// link post, the body text for a text post, the gallery link for a gallery
// post, and nil for an unknown post.
type Post struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Score        int      `json:"score"`
	Subreddit    string   `json:"subreddit"`
	URL          string   `json:"url"`
	CreatedAt    string   `json:"created_at"`
	CommentCount int      `json:"comment_count"`
	PostType     PostType `json:"post_type"`
	Content      *string  `json:"content"`
}

// Comment is a normalized comment with its replies, in upstream order.
// A comment with no replies is a valid leaf.
type Comment struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Body    string    `json:"body"`
	Score   int       `json:"score"`
	Replies []Comment `json:"replies"`
}

// SubredditInfo describes a subreddit.
type SubredditInfo struct {
	Name            string  `json:"name"`
	SubscriberCount int     `json:"subscriber_count"`
	Description     *string `json:"description"`
}

// PostDetail is one post together with its top-level comments. The
// comments belong to this PostDetail alone; they are never shared.
type PostDetail struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

package reddit

import (
	"encoding/json"
	"time"
)

// SubmissionKind is the closed set of submission variants the client
// recognizes at decode time. The normalization layer decides what to do
// with each kind; the client only classifies.
type SubmissionKind int

const (
	KindLink SubmissionKind = iota
	KindText
	KindGallery
	KindPoll
	KindCrosspost
)

func (k SubmissionKind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindText:
		return "text"
	case KindGallery:
		return "gallery"
	case KindPoll:
		return "poll"
	case KindCrosspost:
		return "crosspost"
	}
	return "invalid"
}

// Submission is one raw post as the upstream API reports it.
// Author is empty when the account is deleted.
type Submission struct {
	ID           string
	Kind         SubmissionKind
	Title        string
	Author       string
	Score        int
	Subreddit    string
	Permalink    string
	CreatedAt    time.Time
	CommentCount int
	Body         string
	GalleryURL   string
}

// Comment is one raw comment's data, without its children.
type Comment struct {
	ID     string
	Author string
	Body   string
	Score  int
}

// CommentNode pairs one comment with its ordered child nodes.
type CommentNode struct {
	Value    Comment
	Children []*CommentNode
}

// SubredditAbout is the subreddit metadata the about endpoint returns.
type SubredditAbout struct {
	Name              string
	Subscribers       int
	PublicDescription string
}

// Wire envelopes. Reddit wraps everything in kind/data "things", and
// listings nest things under data.children.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type submissionData struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Author              string          `json:"author"`
	Score               int             `json:"score"`
	Subreddit           string          `json:"subreddit"`
	Permalink           string          `json:"permalink"`
	CreatedUTC          float64         `json:"created_utc"`
	NumComments         int             `json:"num_comments"`
	Selftext            string          `json:"selftext"`
	URL                 string          `json:"url"`
	IsSelf              bool            `json:"is_self"`
	IsGallery           bool            `json:"is_gallery"`
	PollData            json.RawMessage `json:"poll_data"`
	CrosspostParentList json.RawMessage `json:"crosspost_parent_list"`
}

type commentData struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
	Score  int    `json:"score"`
	// Either the empty string or a nested listing.
	Replies json.RawMessage `json:"replies"`
}

type aboutData struct {
	DisplayName       string `json:"display_name"`
	Subscribers       int    `json:"subscribers"`
	PublicDescription string `json:"public_description"`
}

// permalinkHost anchors relative permalinks regardless of which base URL
// the client itself talks to.
const permalinkHost = "https://www.reddit.com"

func (d submissionData) toSubmission() Submission {
	kind := KindLink
	switch {
	case d.IsGallery:
		kind = KindGallery
	case present(d.PollData):
		kind = KindPoll
	case present(d.CrosspostParentList):
		kind = KindCrosspost
	case d.IsSelf:
		kind = KindText
	}

	permalink := d.Permalink
	if len(permalink) > 0 && permalink[0] == '/' {
		permalink = permalinkHost + permalink
	}

	return Submission{
		ID:           d.ID,
		Kind:         kind,
		Title:        d.Title,
		Author:       cleanAuthor(d.Author),
		Score:        d.Score,
		Subreddit:    d.Subreddit,
		Permalink:    permalink,
		CreatedAt:    time.Unix(int64(d.CreatedUTC), 0).UTC(),
		CommentCount: d.NumComments,
		Body:         d.Selftext,
		GalleryURL:   d.URL,
	}
}

// cleanAuthor maps the API's deleted-account placeholder to the empty
// string so callers have a single absence test.
func cleanAuthor(name string) string {
	if name == "[deleted]" {
		return ""
	}
	return name
}

// present reports whether a raw JSON field was set to something other
// than null. Empty arrays still count: a crosspost with a pruned parent
// list is still a crosspost.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func isListing(raw json.RawMessage) bool {
	return len(raw) > 0 && raw[0] == '{'
}

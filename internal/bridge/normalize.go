package bridge

import (
	"time"

	"github.com/jonwraymond/redditmcp/internal/models"
	"github.com/jonwraymond/redditmcp/internal/reddit"
)

// deletedAuthor substitutes for an absent author name anywhere an author
// is rendered.
const deletedAuthor = "[deleted]"

func displayName(name string) string {
	if name == "" {
		return deletedAuthor
	}
	return name
}

// classify maps a submission's upstream kind onto the closed PostType
// set. Kinds the bridge does not model become PostTypeUnknown.
func classify(sub reddit.Submission) models.PostType {
	switch sub.Kind {
	case reddit.KindLink:
		return models.PostTypeLink
	case reddit.KindText:
		return models.PostTypeText
	case reddit.KindGallery:
		return models.PostTypeGallery
	default:
		return models.PostTypeUnknown
	}
}

// postContent derives the content field. Total over the four post types;
// each case is spelled out so a new PostType cannot slip through a
// default arm unnoticed.
func postContent(sub reddit.Submission, pt models.PostType) *string {
	switch pt {
	case models.PostTypeLink:
		s := sub.Permalink
		return &s
	case models.PostTypeText:
		s := sub.Body
		return &s
	case models.PostTypeGallery:
		s := sub.GalleryURL
		return &s
	case models.PostTypeUnknown:
		return nil
	}
	return nil
}

// buildPost normalizes one raw submission into exactly one Post. The
// timestamp is rendered in loc with its offset, so output is
// deterministic given a fixed upstream instant and a fixed zone.
func buildPost(sub reddit.Submission, loc *time.Location) models.Post {
	pt := classify(sub)
	return models.Post{
		ID:           sub.ID,
		Title:        sub.Title,
		Author:       displayName(sub.Author),
		Score:        sub.Score,
		Subreddit:    sub.Subreddit,
		URL:          sub.Permalink,
		CreatedAt:    sub.CreatedAt.In(loc).Format(time.RFC3339),
		CommentCount: sub.CommentCount,
		PostType:     pt,
		Content:      postContent(sub, pt),
	}
}

package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/redditmcp/internal/models"
	"github.com/jonwraymond/redditmcp/internal/reddit"
)

// Upstream is the slice of the Reddit client the bridge consumes. The
// concrete implementation is reddit.Client; tests substitute fakes.
type Upstream interface {
	FrontpageHot(ctx context.Context, limit int) ([]reddit.Submission, error)
	SubredditAbout(ctx context.Context, name string) (reddit.SubredditAbout, error)
	SubredditPosts(ctx context.Context, name string, sort reddit.Sort, limit int, t reddit.TimeFilter) ([]reddit.Submission, error)
	SubmissionByID(ctx context.Context, id string) (reddit.Submission, error)
	CommentTree(ctx context.Context, postID string, limit int) ([]*reddit.CommentNode, error)
}

// Service implements the content-retrieval operations over one upstream
// handle. A Service is built per invocation and holds no mutable state;
// concurrent invocations are fully independent.
type Service struct {
	up  Upstream
	loc *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the zone timestamps are rendered in. Defaults to the
// process-local zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a Service over the given upstream.
func NewService(up Upstream, opts ...Option) *Service {
	s := &Service{up: up, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FrontpagePosts returns hot posts from the frontpage.
func (s *Service) FrontpagePosts(ctx context.Context, limit int) ([]models.Post, error) {
	return withOp("fetch frontpage posts", func() ([]models.Post, error) {
		subs, err := s.up.FrontpageHot(ctx, limit)
		if err != nil {
			return nil, err
		}
		return s.buildPosts(subs), nil
	})
}

// SubredditInfo returns basic information about a subreddit.
func (s *Service) SubredditInfo(ctx context.Context, name string) (models.SubredditInfo, error) {
	op := fmt.Sprintf("fetch subreddit info for '%s'", name)
	return withOp(op, func() (models.SubredditInfo, error) {
		about, err := s.up.SubredditAbout(ctx, name)
		if err != nil {
			return models.SubredditInfo{}, err
		}

		info := models.SubredditInfo{
			Name:            about.Name,
			SubscriberCount: about.Subscribers,
		}
		if about.PublicDescription != "" {
			desc := about.PublicDescription
			info.Description = &desc
		}
		return info, nil
	})
}

// HotPosts returns hot posts from one subreddit.
func (s *Service) HotPosts(ctx context.Context, name string, limit int) ([]models.Post, error) {
	op := fmt.Sprintf("fetch hot posts from '%s'", name)
	return s.subredditPosts(ctx, op, name, reddit.SortHot, limit, "")
}

// NewPosts returns new posts from one subreddit.
func (s *Service) NewPosts(ctx context.Context, name string, limit int) ([]models.Post, error) {
	op := fmt.Sprintf("fetch new posts from '%s'", name)
	return s.subredditPosts(ctx, op, name, reddit.SortNew, limit, "")
}

// TopPosts returns top posts from one subreddit within a time window.
func (s *Service) TopPosts(ctx context.Context, name string, limit int, t reddit.TimeFilter) ([]models.Post, error) {
	op := fmt.Sprintf("fetch top posts from '%s'", name)
	return s.subredditPosts(ctx, op, name, reddit.SortTop, limit, t)
}

// RisingPosts returns rising posts from one subreddit.
func (s *Service) RisingPosts(ctx context.Context, name string, limit int) ([]models.Post, error) {
	op := fmt.Sprintf("fetch rising posts from '%s'", name)
	return s.subredditPosts(ctx, op, name, reddit.SortRising, limit, "")
}

// PostContent returns one post with its comment tree. The depth budget
// applies from the top-level comments down.
func (s *Service) PostContent(ctx context.Context, postID string, commentLimit, commentDepth int) (models.PostDetail, error) {
	op := fmt.Sprintf("fetch post content for '%s'", postID)
	return withOp(op, func() (models.PostDetail, error) {
		sub, err := s.up.SubmissionByID(ctx, postID)
		if err != nil {
			return models.PostDetail{}, err
		}

		nodes, err := s.up.CommentTree(ctx, postID, commentLimit)
		if err != nil {
			return models.PostDetail{}, err
		}

		return models.PostDetail{
			Post:     buildPost(sub, s.loc),
			Comments: buildCommentForest(nodes, commentDepth),
		}, nil
	})
}

// PostComments returns the comments of a post at the default depth.
func (s *Service) PostComments(ctx context.Context, postID string, limit int) ([]models.Comment, error) {
	op := fmt.Sprintf("fetch comments for post '%s'", postID)
	return withOp(op, func() ([]models.Comment, error) {
		nodes, err := s.up.CommentTree(ctx, postID, limit)
		if err != nil {
			return nil, err
		}
		return buildCommentForest(nodes, DefaultCommentDepth), nil
	})
}

func (s *Service) subredditPosts(ctx context.Context, op, name string, sort reddit.Sort, limit int, t reddit.TimeFilter) ([]models.Post, error) {
	return withOp(op, func() ([]models.Post, error) {
		subs, err := s.up.SubredditPosts(ctx, name, sort, limit, t)
		if err != nil {
			return nil, err
		}
		return s.buildPosts(subs), nil
	})
}

func (s *Service) buildPosts(subs []reddit.Submission) []models.Post {
	posts := make([]models.Post, 0, len(subs))
	for _, sub := range subs {
		posts = append(posts, buildPost(sub, s.loc))
	}
	return posts
}

// Package reddit is a thin client for Reddit's public, unauthenticated
// JSON API. It returns raw variant-typed submissions, subreddit metadata,
// and comment-tree nodes; all shaping into uniform records happens in the
// bridge package.
//
// The client holds no state beyond its HTTP configuration. Callers are
// expected to construct a fresh client per invocation; construction is
// cheap and keeps concurrent invocations independent.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Sort selects a subreddit listing ordering.
type Sort string

const (
	SortHot    Sort = "hot"
	SortNew    Sort = "new"
	SortTop    Sort = "top"
	SortRising Sort = "rising"
)

// TimeFilter narrows a top listing to a time window. The empty value
// leaves the window unset.
type TimeFilter string

const (
	TimeAll   TimeFilter = "all"
	TimeYear  TimeFilter = "year"
	TimeMonth TimeFilter = "month"
	TimeWeek  TimeFilter = "week"
	TimeDay   TimeFilter = "day"
	TimeHour  TimeFilter = "hour"
)

const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "redditmcp/1.0 (github.com/jonwraymond/redditmcp)"

	defaultTimeout = 15 * time.Second
)

// Client talks to the Reddit JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithUserAgent sets the User-Agent header. Reddit throttles requests
// carrying a generic agent string, so production deployments should set
// something descriptive.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client with the given options applied over defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FrontpageHot returns hot submissions from the frontpage.
func (c *Client) FrontpageHot(ctx context.Context, limit int) ([]Submission, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var l listing
	if err := c.get(ctx, "/hot.json", q, &l); err != nil {
		return nil, err
	}
	return submissionsFromListing(l)
}

// SubredditPosts returns submissions from one subreddit under the given
// sort. The time filter only applies to SortTop and is ignored otherwise.
func (c *Client) SubredditPosts(ctx context.Context, name string, sort Sort, limit int, t TimeFilter) ([]Submission, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if sort == SortTop && t != "" {
		q.Set("t", string(t))
	}

	path := fmt.Sprintf("/r/%s/%s.json", url.PathEscape(name), sort)
	var l listing
	if err := c.get(ctx, path, q, &l); err != nil {
		return nil, err
	}
	return submissionsFromListing(l)
}

// SubredditAbout returns metadata for one subreddit.
func (c *Client) SubredditAbout(ctx context.Context, name string) (SubredditAbout, error) {
	path := fmt.Sprintf("/r/%s/about.json", url.PathEscape(name))

	var t thing
	if err := c.get(ctx, path, nil, &t); err != nil {
		return SubredditAbout{}, err
	}

	var d aboutData
	if err := json.Unmarshal(t.Data, &d); err != nil {
		return SubredditAbout{}, fmt.Errorf("decode subreddit about: %w", err)
	}
	if d.DisplayName == "" {
		return SubredditAbout{}, fmt.Errorf("subreddit %q not found", name)
	}

	return SubredditAbout{
		Name:              d.DisplayName,
		Subscribers:       d.Subscribers,
		PublicDescription: d.PublicDescription,
	}, nil
}

// SubmissionByID fetches a single submission by its id36.
func (c *Client) SubmissionByID(ctx context.Context, id string) (Submission, error) {
	q := url.Values{}
	q.Set("id", "t3_"+id)

	var l listing
	if err := c.get(ctx, "/api/info.json", q, &l); err != nil {
		return Submission{}, err
	}

	subs, err := submissionsFromListing(l)
	if err != nil {
		return Submission{}, err
	}
	if len(subs) == 0 {
		return Submission{}, fmt.Errorf("submission %q not found", id)
	}
	return subs[0], nil
}

// CommentTree fetches the comment tree of a submission, sorted by top,
// preserving upstream child order. "more" placeholders are skipped; this
// client does not expand them.
func (c *Client) CommentTree(ctx context.Context, postID string, limit int) ([]*CommentNode, error) {
	q := url.Values{}
	q.Set("sort", "top")
	q.Set("limit", strconv.Itoa(limit))

	// The comments endpoint returns a two-element array: the submission
	// listing, then the comment listing.
	var payload []json.RawMessage
	path := fmt.Sprintf("/comments/%s.json", url.PathEscape(postID))
	if err := c.get(ctx, path, q, &payload); err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("comments payload for %q: expected 2 listings, got %d", postID, len(payload))
	}

	var l listing
	if err := json.Unmarshal(payload[1], &l); err != nil {
		return nil, fmt.Errorf("decode comment listing: %w", err)
	}
	return nodesFromListing(l)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func submissionsFromListing(l listing) ([]Submission, error) {
	subs := make([]Submission, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		if ch.Kind != "t3" {
			continue
		}
		var d submissionData
		if err := json.Unmarshal(ch.Data, &d); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		subs = append(subs, d.toSubmission())
	}
	return subs, nil
}

func nodesFromListing(l listing) ([]*CommentNode, error) {
	nodes := make([]*CommentNode, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		if ch.Kind != "t1" {
			continue
		}

		var d commentData
		if err := json.Unmarshal(ch.Data, &d); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}

		node := &CommentNode{
			Value: Comment{
				ID:     d.ID,
				Author: cleanAuthor(d.Author),
				Body:   d.Body,
				Score:  d.Score,
			},
		}

		// replies is "" for leaves and a listing otherwise.
		if isListing(d.Replies) {
			var rl listing
			if err := json.Unmarshal(d.Replies, &rl); err != nil {
				return nil, fmt.Errorf("decode replies of %s: %w", d.ID, err)
			}
			children, err := nodesFromListing(rl)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}

		nodes = append(nodes, node)
	}
	return nodes, nil
}

package server

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/redditmcp/internal/bridge"
	"github.com/jonwraymond/redditmcp/internal/reddit"
)

const defaultLimit = 10

func (s *Server) registerTools() error {
	regs := []struct {
		tool    *mcp.Tool
		handler toolHandler
	}{
		{
			tool: &mcp.Tool{
				Name:        "get_frontpage_posts",
				Description: "Get hot posts from the Reddit frontpage.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"limit": limitSchema("Number of posts to retrieve (1-100, default 10)"),
				}),
			},
			handler: handleFrontpagePosts,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_subreddit_info",
				Description: "Get basic information about a subreddit.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"subreddit_name": subredditNameSchema(),
				}, "subreddit_name"),
			},
			handler: handleSubredditInfo,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_subreddit_hot_posts",
				Description: "Get hot posts from a specific subreddit.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"subreddit_name": subredditNameSchema(),
					"limit":          limitSchema("Number of posts to retrieve (1-100, default 10)"),
				}, "subreddit_name"),
			},
			handler: handleHotPosts,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_subreddit_new_posts",
				Description: "Get new posts from a specific subreddit.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"subreddit_name": subredditNameSchema(),
					"limit":          limitSchema("Number of posts to retrieve (1-100, default 10)"),
				}, "subreddit_name"),
			},
			handler: handleNewPosts,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_subreddit_top_posts",
				Description: "Get top posts from a specific subreddit.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"subreddit_name": subredditNameSchema(),
					"limit":          limitSchema("Number of posts to retrieve (1-100, default 10)"),
					"time": {
						Type:        "string",
						Description: "Time window for top posts",
						Enum:        []any{"", "hour", "day", "week", "month", "year", "all"},
						Default:     json.RawMessage(`""`),
					},
				}, "subreddit_name"),
			},
			handler: handleTopPosts,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_subreddit_rising_posts",
				Description: "Get rising posts from a specific subreddit.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"subreddit_name": subredditNameSchema(),
					"limit":          limitSchema("Number of posts to retrieve (1-100, default 10)"),
				}, "subreddit_name"),
			},
			handler: handleRisingPosts,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_post_content",
				Description: "Get detailed post content including comments.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"post_id": postIDSchema(),
					"comment_limit": intSchema(
						"Number of top-level comments to retrieve (1-100, default 10)", 1, 100, 10),
					"comment_depth": intSchema(
						"Maximum depth of comment replies to fetch (1-10, default 3)", 1, 10, 3),
				}, "post_id"),
			},
			handler: handlePostContent,
		},
		{
			tool: &mcp.Tool{
				Name:        "get_post_comments",
				Description: "Get comments from a post.",
				InputSchema: objectSchema(map[string]*jsonschema.Schema{
					"post_id": postIDSchema(),
					"limit":   limitSchema("Number of comments to retrieve (1-100, default 10)"),
				}, "post_id"),
			},
			handler: handlePostComments,
		},
	}

	for _, r := range regs {
		if err := s.register(r.tool, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// Schema helpers. Constraints declared here are enforced before any
// handler runs; handlers only fill in defaults for omitted fields.

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func intSchema(desc string, min, max, def int) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Minimum:     f64(float64(min)),
		Maximum:     f64(float64(max)),
		Default:     json.RawMessage(strconv.Itoa(def)),
	}
}

func limitSchema(desc string) *jsonschema.Schema {
	return intSchema(desc, 1, 100, defaultLimit)
}

func subredditNameSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Name of the subreddit (without r/ prefix)",
	}
}

func postIDSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Reddit post ID",
	}
}

func f64(v float64) *float64 {
	return &v
}

// Argument structs, one per input shape.

type limitArgs struct {
	Limit int `json:"limit"`
}

type subredditArgs struct {
	SubredditName string `json:"subreddit_name"`
	Limit         int    `json:"limit"`
}

type topPostsArgs struct {
	SubredditName string `json:"subreddit_name"`
	Limit         int    `json:"limit"`
	Time          string `json:"time"`
}

type postContentArgs struct {
	PostID       string `json:"post_id"`
	CommentLimit int    `json:"comment_limit"`
	CommentDepth int    `json:"comment_depth"`
}

type postCommentsArgs struct {
	PostID string `json:"post_id"`
	Limit  int    `json:"limit"`
}

func handleFrontpagePosts(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args limitArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.FrontpagePosts(ctx, args.Limit)
}

func handleSubredditInfo(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args subredditArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return svc.SubredditInfo(ctx, args.SubredditName)
}

func handleHotPosts(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args subredditArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.HotPosts(ctx, args.SubredditName, args.Limit)
}

func handleNewPosts(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args subredditArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.NewPosts(ctx, args.SubredditName, args.Limit)
}

func handleTopPosts(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args topPostsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.TopPosts(ctx, args.SubredditName, args.Limit, reddit.TimeFilter(args.Time))
}

func handleRisingPosts(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args subredditArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.RisingPosts(ctx, args.SubredditName, args.Limit)
}

func handlePostContent(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args postContentArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.CommentLimit == 0 {
		args.CommentLimit = defaultLimit
	}
	if args.CommentDepth == 0 {
		args.CommentDepth = bridge.DefaultCommentDepth
	}
	return svc.PostContent(ctx, args.PostID, args.CommentLimit, args.CommentDepth)
}

func handlePostComments(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
	var args postCommentsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit == 0 {
		args.Limit = defaultLimit
	}
	return svc.PostComments(ctx, args.PostID, args.Limit)
}

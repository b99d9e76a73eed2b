package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/jonwraymond/redditmcp/internal/bridge"
	"github.com/jonwraymond/redditmcp/internal/reddit"
)

type stubUpstream struct {
	submissions []reddit.Submission
	about       reddit.SubredditAbout
	nodes       []*reddit.CommentNode
	err         error
}

func (s *stubUpstream) FrontpageHot(ctx context.Context, limit int) ([]reddit.Submission, error) {
	return s.submissions, s.err
}

func (s *stubUpstream) SubredditAbout(ctx context.Context, name string) (reddit.SubredditAbout, error) {
	return s.about, s.err
}

func (s *stubUpstream) SubredditPosts(ctx context.Context, name string, sort reddit.Sort, limit int, t reddit.TimeFilter) ([]reddit.Submission, error) {
	return s.submissions, s.err
}

func (s *stubUpstream) SubmissionByID(ctx context.Context, id string) (reddit.Submission, error) {
	if s.err != nil {
		return reddit.Submission{}, s.err
	}
	if len(s.submissions) == 0 {
		return reddit.Submission{}, errors.New("no submission")
	}
	return s.submissions[0], nil
}

func (s *stubUpstream) CommentTree(ctx context.Context, postID string, limit int) ([]*reddit.CommentNode, error) {
	return s.nodes, s.err
}

func testServer(t *testing.T, up *stubUpstream) *Server {
	t.Helper()
	srv, err := New(Config{
		Info:        ServerInfo{Name: "redditmcp-test", Version: "0.0.1"},
		NewUpstream: func() bridge.Upstream { return up },
		Location:    time.UTC,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return srv
}

func testSubmissions() []reddit.Submission {
	return []reddit.Submission{{
		ID:           "abc123",
		Kind:         reddit.KindText,
		Title:        "hello",
		Author:       "gopher",
		Score:        42,
		Subreddit:    "golang",
		Permalink:    "https://www.reddit.com/r/golang/comments/abc123/hello/",
		CreatedAt:    time.Unix(1700000000, 0).UTC(),
		CommentCount: 1,
		Body:         "hello body",
	}}
}

func TestNewRequiresUpstream(t *testing.T) {
	_, err := New(Config{Info: ServerInfo{Name: "x", Version: "1"}})
	if !errors.Is(err, ErrNoUpstream) {
		t.Fatalf("err = %v, want ErrNoUpstream", err)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	info, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatalf("serverInfo missing: %v", result)
	}
	if info["name"] != "redditmcp-test" {
		t.Errorf("server name = %v", info["name"])
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 7, Method: "ping"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 1, Method: "bogus"})
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Fatalf("error = %+v, want method not found", resp.Error)
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	result := resp.Result.(map[string]any)
	tools := result["tools"].([]map[string]any)

	want := []string{
		"get_frontpage_posts",
		"get_subreddit_info",
		"get_subreddit_hot_posts",
		"get_subreddit_new_posts",
		"get_subreddit_top_posts",
		"get_subreddit_rising_posts",
		"get_post_content",
		"get_post_comments",
	}
	if len(tools) != len(want) {
		t.Fatalf("tools = %d, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i]["name"] != name {
			t.Errorf("tools[%d] = %v, want %s", i, tools[i]["name"], name)
		}
		if tools[i]["inputSchema"] == nil {
			t.Errorf("%s has no input schema", name)
		}
	}
}

func callParams(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(toolsCallParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return raw
}

func TestToolsCall_Success(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      3,
		Method:  "tools/call",
		Params:  callParams(t, "get_frontpage_posts", map[string]any{"limit": 5}),
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	if result.IsError {
		t.Fatal("result flagged as error")
	}
	if result.StructuredContent == nil {
		t.Fatal("no structured content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", result.Content[0])
	}
	if !strings.Contains(text.Text, `"author": "gopher"`) {
		t.Errorf("text content missing post fields: %s", text.Text)
	}
	if !strings.Contains(text.Text, `"post_type": "text"`) {
		t.Errorf("text content missing post_type: %s", text.Text)
	}
}

func TestToolsCall_DefaultsApplied(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})

	// No arguments at all: limit defaults to 10, nothing rejected.
	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      4,
		Method:  "tools/call",
		Params:  callParams(t, "get_frontpage_posts", nil),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestToolsCall_InvalidLimit(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})

	for _, limit := range []any{0, 101, -5} {
		resp := srv.HandleRequest(context.Background(), MCPRequest{
			JSONRPC: "2.0",
			ID:      5,
			Method:  "tools/call",
			Params:  callParams(t, "get_frontpage_posts", map[string]any{"limit": limit}),
		})
		if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
			t.Errorf("limit=%v: error = %+v, want invalid params", limit, resp.Error)
		}
	}
}

func TestToolsCall_InvalidTimeFilter(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      6,
		Method:  "tools/call",
		Params: callParams(t, "get_subreddit_top_posts", map[string]any{
			"subreddit_name": "golang",
			"time":           "fortnight",
		}),
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Fatalf("error = %+v, want invalid params", resp.Error)
	}
}

func TestToolsCall_MissingRequired(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "tools/call",
		Params:  callParams(t, "get_subreddit_info", nil),
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Fatalf("error = %+v, want invalid params", resp.Error)
	}
}

func TestRegisterRequiresTypedSchema(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	err := srv.register(&mcp.Tool{
		Name:        "bad_tool",
		Description: "schema left as a raw map",
		InputSchema: map[string]any{"type": "object"},
	}, func(ctx context.Context, svc *bridge.Service, raw json.RawMessage) (any, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("err = %v, want ErrInvalidSchema", err)
	}
}

func TestToolsCall_PostContentDepth(t *testing.T) {
	up := &stubUpstream{
		submissions: testSubmissions(),
		nodes: []*reddit.CommentNode{
			{
				Value: reddit.Comment{ID: "c1", Author: "a", Body: "top", Score: 1},
				Children: []*reddit.CommentNode{
					{
						Value: reddit.Comment{ID: "g1", Author: "b", Body: "child", Score: 1},
						Children: []*reddit.CommentNode{
							{Value: reddit.Comment{ID: "gg1", Author: "c", Body: "grandchild", Score: 1}},
						},
					},
				},
			},
		},
	}
	srv := testServer(t, up)

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      10,
		Method:  "tools/call",
		Params: callParams(t, "get_post_content", map[string]any{
			"post_id":       "abc123",
			"comment_depth": 2,
		}),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	result := resp.Result.(*mcp.CallToolResult)
	text := result.Content[0].(*mcp.TextContent).Text
	// Depth 2 keeps the child and drops the grandchild.
	if !strings.Contains(text, `"id": "g1"`) {
		t.Errorf("child g1 missing at depth 2: %s", text)
	}
	if strings.Contains(text, `"id": "gg1"`) {
		t.Errorf("grandchild gg1 survived a depth budget of 2: %s", text)
	}

	// Out-of-range depth never reaches the bridge.
	resp = srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      11,
		Method:  "tools/call",
		Params: callParams(t, "get_post_content", map[string]any{
			"post_id":       "abc123",
			"comment_depth": 11,
		}),
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidParams {
		t.Fatalf("error = %+v, want invalid params for comment_depth 11", resp.Error)
	}
}

func TestToolsCall_UnknownTool(t *testing.T) {
	srv := testServer(t, &stubUpstream{})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      8,
		Method:  "tools/call",
		Params:  callParams(t, "get_upvotes", nil),
	})
	if resp.Error == nil || resp.Error.Code != ErrCodeToolNotFound {
		t.Fatalf("error = %+v, want tool not found", resp.Error)
	}
}

func TestToolsCall_UpstreamFailure(t *testing.T) {
	srv := testServer(t, &stubUpstream{err: errors.New("connection refused")})

	resp := srv.HandleRequest(context.Background(), MCPRequest{
		JSONRPC: "2.0",
		ID:      9,
		Method:  "tools/call",
		Params:  callParams(t, "get_subreddit_info", map[string]any{"subreddit_name": "doesnotexist"}),
	})

	if resp.Error != nil {
		t.Fatalf("upstream failure should be a tool result, got protocol error: %+v", resp.Error)
	}
	result := resp.Result.(*mcp.CallToolResult)
	if !result.IsError {
		t.Fatal("result not flagged as error")
	}
	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "fetch subreddit info for 'doesnotexist'") {
		t.Errorf("error text %q does not name the operation", text)
	}
	if !strings.Contains(text, "connection refused") {
		t.Errorf("error text %q does not carry the cause", text)
	}
	if result.StructuredContent != nil {
		t.Error("partial data returned alongside error")
	}
}

func TestServeStream(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})

	var in bytes.Buffer
	in.WriteString(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n")
	in.WriteString(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	in.WriteString(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	in.WriteString(`not json` + "\n")

	var out bytes.Buffer
	if err := srv.serveStream(context.Background(), &in, &out); err != nil {
		t.Fatalf("serveStream failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// initialize + tools/list + parse error; the notification is consumed.
	if len(lines) != 3 {
		t.Fatalf("responses = %d, want 3:\n%s", len(lines), out.String())
	}

	var last MCPResponse
	if err := json.Unmarshal([]byte(lines[2]), &last); err != nil {
		t.Fatalf("unmarshal last response: %v", err)
	}
	if last.Error == nil || last.Error.Code != ErrCodeParseError {
		t.Errorf("last response = %+v, want parse error", last)
	}
}

func TestServeStreamLongLine(t *testing.T) {
	srv := testServer(t, &stubUpstream{about: reddit.SubredditAbout{Name: "golang", Subscribers: 1}})

	// One request line well past the scanner's 64KB default must not
	// abort the session.
	long := strings.Repeat("x", 100*1024)
	var in bytes.Buffer
	in.WriteString(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_subreddit_info","arguments":{"subreddit_name":"` + long + `"}}}` + "\n")
	in.WriteString(`{"jsonrpc":"2.0","id":2,"method":"ping"}` + "\n")

	var out bytes.Buffer
	if err := srv.serveStream(context.Background(), &in, &out); err != nil {
		t.Fatalf("serveStream failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("responses = %d, want 2", len(lines))
	}
	var first MCPResponse
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first response: %v", err)
	}
	if first.Error != nil {
		t.Errorf("long request rejected: %+v", first.Error)
	}
}

func TestHTTPHandler(t *testing.T) {
	srv := testServer(t, &stubUpstream{submissions: testSubmissions()})
	ts := httptest.NewServer(srv.HTTPHandler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(ts.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("unexpected error: %+v", mcpResp.Error)
	}

	// GET is rejected.
	getResp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", getResp.StatusCode)
	}
}

func TestSSEHandler(t *testing.T) {
	srv := testServer(t, &stubUpstream{})
	ts := httptest.NewServer(srv.SSEHandler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`
	resp, err := http.Post(ts.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "event: message") {
		t.Errorf("body = %q, want SSE message event", buf.String())
	}
}

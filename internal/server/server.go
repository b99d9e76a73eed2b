package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/jonwraymond/redditmcp/internal/bridge"
)

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Config configures a Server.
type Config struct {
	Info ServerInfo

	// NewUpstream builds the upstream handle for one tool call. A fresh
	// handle per call keeps concurrent invocations independent.
	NewUpstream func() bridge.Upstream

	// Location is the zone timestamps are rendered in. Defaults to the
	// process-local zone.
	Location *time.Location

	Logger zerolog.Logger
}

// toolHandler executes one tool against a per-call bridge service. Args
// arrive already validated against the tool's input schema.
type toolHandler func(ctx context.Context, svc *bridge.Service, args json.RawMessage) (any, error)

type toolEntry struct {
	tool     *mcp.Tool
	resolved *jsonschema.Resolved
	handler  toolHandler
}

// Server is a fixed-table MCP tool server over the bridge operations.
type Server struct {
	config Config
	order  []string
	tools  map[string]*toolEntry
}

// New creates a Server with the eight content-retrieval tools registered.
func New(cfg Config) (*Server, error) {
	if cfg.NewUpstream == nil {
		return nil, ErrNoUpstream
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &Server{
		config: cfg,
		tools:  make(map[string]*toolEntry),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) register(tool *mcp.Tool, handler toolHandler) error {
	if _, ok := s.tools[tool.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name)
	}

	// The SDK declares InputSchema as any; validation needs the typed form.
	schema, ok := tool.InputSchema.(*jsonschema.Schema)
	if !ok {
		return fmt.Errorf("%w: %s has %T", ErrInvalidSchema, tool.Name, tool.InputSchema)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve input schema for %s: %w", tool.Name, err)
	}

	s.tools[tool.Name] = &toolEntry{
		tool:     tool,
		resolved: resolved,
		handler:  handler,
	}
	s.order = append(s.order, tool.Name)
	return nil
}

func (s *Server) newService() *bridge.Service {
	return bridge.NewService(s.config.NewUpstream(), bridge.WithLocation(s.config.Location))
}

// callTool validates arguments, runs the handler with a fresh service,
// and shapes the outcome. A bridge failure becomes an isError result
// carrying the uniform message; protocol-level problems (unknown tool,
// invalid arguments) are returned as errors for the JSON-RPC layer.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	entry, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := entry.resolved.Validate(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	start := time.Now()
	result, err := entry.handler(ctx, s.newService(), raw)
	if err != nil {
		var opErr *bridge.OpError
		if errors.As(err, &opErr) {
			s.config.Logger.Error().
				Str("tool", name).
				Dur("duration", time.Since(start)).
				Err(err).
				Msg("tool call failed")
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}
		return nil, err
	}

	s.config.Logger.Info().
		Str("tool", name).
		Dur("duration", time.Since(start)).
		Msg("tool call")

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result of %s: %w", name, err)
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(data)}},
		StructuredContent: result,
	}, nil
}

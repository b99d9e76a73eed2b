package server

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrNoUpstream       = errors.New("no upstream factory configured")
	ErrDuplicateTool    = errors.New("tool already registered")
	ErrInvalidSchema    = errors.New("input schema must be *jsonschema.Schema")
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid arguments")
)

// MCP JSON-RPC 2.0 error codes as per the spec.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeToolNotFound   = -32001
)

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/ops"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, s *Server, operation string, arguments map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Name = operation
	req.Params.Arguments = arguments

	res, err := s.handle(operation)(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return res, text.Text
}

func TestTool_Success(t *testing.T) {
	s := NewServer(ops.Numeric(), logging.NewNop())

	res, text := call(t, s, "add", map[string]any{"args": []any{[]any{50.0, 75.0}}})
	assert.False(t, res.IsError)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &body))
	assert.Equal(t, 125.0, body["result"])
	assert.Equal(t, "success", body["status"])
}

func TestTool_Kwargs(t *testing.T) {
	s := NewServer(ops.Textual(), logging.NewNop())

	res, text := call(t, s, "format_text", map[string]any{
		"args":   []any{"hello"},
		"kwargs": map[string]any{"format_type": "uppercase"},
	})
	assert.False(t, res.IsError)
	assert.Contains(t, text, `"result":"HELLO"`)
}

func TestTool_Failure(t *testing.T) {
	s := NewServer(ops.Numeric(), logging.NewNop())

	res, text := call(t, s, "divide", map[string]any{"args": []any{1.0, 0.0}})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "division by zero")

	res, text = call(t, s, "add", map[string]any{"args": "nope"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "args must be an array")
}

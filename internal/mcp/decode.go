package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps a tool call's arguments onto the tool's input struct by
// round-tripping through JSON, so nested values (compositions, target
// lists) land in their typed fields without manual assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var in T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return in, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("decode arguments: %w", err)
	}
	return in, nil
}

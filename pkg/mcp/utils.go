package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/unowned-ai/medtrack/pkg/datekey"
)

// stringArg returns a trimmed string argument, or "" when absent.
func stringArg(request mcp.CallToolRequest, name string) string {
	v, _ := request.Params.Arguments[name].(string)
	return strings.TrimSpace(v)
}

// idArg reads an item id. JSON numbers arrive as float64; ids are also
// accepted as strings since they exceed what some clients print exactly.
func idArg(request mcp.CallToolRequest, name string) (int64, error) {
	switch v := request.Params.Arguments[name].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("'%s' must be an integer id, got %v", name, v)
		}
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("'%s' must be an integer id, got %q", name, v)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("'%s' parameter is required", name)
	default:
		return 0, fmt.Errorf("'%s' must be an integer id", name)
	}
}

// dateArg parses the optional 'date' argument. Absent means today.
func dateArg(request mcp.CallToolRequest, today time.Time) (time.Time, error) {
	raw := stringArg(request, "date")
	if raw == "" {
		return today, nil
	}
	return datekey.Parse(raw)
}

func boolArg(request mcp.CallToolRequest, name string) bool {
	v, _ := request.Params.Arguments[name].(bool)
	return v
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

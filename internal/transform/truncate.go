package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

const (
	maxToolLines = 2
	maxToolChars = 120
	ellipsis     = "…"
)

// TruncateToolContent shortens a string to at most 2 lines or 120
// characters, whichever limit is hit first, appending an ellipsis
// marker. Strings within both bounds come back unchanged.
func TruncateToolContent(s string) string {
	truncated := false

	if lines := strings.SplitN(s, "\n", maxToolLines+1); len(lines) > maxToolLines {
		s = strings.Join(lines[:maxToolLines], "\n")
		truncated = true
	}
	if runes := []rune(s); len(runes) > maxToolChars {
		s = string(runes[:maxToolChars])
		truncated = true
	}
	if truncated {
		s += ellipsis
	}
	return s
}

// truncateToolBlock applies recursive string-leaf truncation to a
// tool_use block's input or a tool_result block's content. Other block
// types pass through. The second return reports whether any value
// actually changed.
func truncateToolBlock(block session.Block) (session.Block, bool, error) {
	switch block.Type {
	case session.BlockTypeToolUse:
		if len(block.ToolInput) == 0 {
			return block, false, nil
		}
		out, changed, err := truncateJSONLeaves(block.ToolInput)
		if err != nil || !changed {
			return block, false, err
		}
		rewritten, err := block.WithToolInput(out)
		if err != nil {
			return block, false, err
		}
		return rewritten, true, nil
	case session.BlockTypeToolResult:
		if len(block.ResultContent) == 0 {
			return block, false, nil
		}
		out, changed, err := truncateJSONLeaves(block.ResultContent)
		if err != nil || !changed {
			return block, false, err
		}
		rewritten, err := block.WithResultContent(out)
		if err != nil {
			return block, false, err
		}
		return rewritten, true, nil
	default:
		return block, false, nil
	}
}

// truncateJSONLeaves truncates every string leaf in a JSON value.
func truncateJSONLeaves(raw []byte) ([]byte, bool, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("decoding tool payload: %w", err)
	}

	value, changed := truncateValue(value)
	if !changed {
		return raw, false, nil
	}

	out, err := json.Marshal(value)
	if err != nil {
		return nil, false, fmt.Errorf("encoding truncated payload: %w", err)
	}
	return out, true, nil
}

func truncateValue(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		out := TruncateToolContent(v)
		return out, out != v
	case map[string]any:
		changed := false
		for k, item := range v {
			out, c := truncateValue(item)
			if c {
				v[k] = out
				changed = true
			}
		}
		return v, changed
	case []any:
		changed := false
		for i, item := range v {
			out, c := truncateValue(item)
			if c {
				v[i] = out
				changed = true
			}
		}
		return v, changed
	default:
		return value, false
	}
}

package transform

import "github.com/fyrsmithlabs/sessiontrim/internal/session"

// Turn is a contiguous index range [Start, End] over an entry sequence:
// one human-initiated exchange plus all machine activity until the next
// one.
type Turn struct {
	Start int
	End   int
}

// IdentifyTurns scans entries in order and emits turn boundaries. A
// turn opens at each non-meta user entry whose content is a plain
// string, or a block array containing a text block and no tool_result
// block. The last open turn closes at the final entry index. Entries
// before the first qualifying entry belong to no turn.
//
// Pure and deterministic; reused for statistics and removal-zone
// computation, so the boundary semantics must stay stable.
func IdentifyTurns(entries []session.Entry) []Turn {
	var turns []Turn
	for i, entry := range entries {
		if !startsTurn(entry) {
			continue
		}
		if n := len(turns); n > 0 {
			turns[n-1].End = i - 1
		}
		turns = append(turns, Turn{Start: i, End: i})
	}
	if n := len(turns); n > 0 {
		turns[n-1].End = len(entries) - 1
	}
	return turns
}

func startsTurn(entry session.Entry) bool {
	if entry.Type != session.EntryTypeUser || entry.IsMeta {
		return false
	}
	switch entry.Content.Kind {
	case session.ContentString:
		return true
	case session.ContentBlocks:
		hasText := false
		for _, block := range entry.Content.Blocks {
			switch block.Type {
			case session.BlockTypeToolResult:
				return false
			case session.BlockTypeText:
				hasText = true
			}
		}
		return hasText
	default:
		return false
	}
}

// boundaryIndex converts a percentage to a turn-index boundary. Turns
// with index below the boundary are in zone; the earliest turns are
// cleaned first. The floor arithmetic is intentional and must not be
// reinterpreted for small turn counts.
func boundaryIndex(turnCount, pct int) int {
	return turnCount * pct / 100
}

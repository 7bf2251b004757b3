package transform

import (
	"fmt"

	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// ToolHandlingMode selects how in-zone tool content is handled.
type ToolHandlingMode string

const (
	// ToolModeRemove deletes tool_use blocks and their referencing
	// tool_result blocks.
	ToolModeRemove ToolHandlingMode = "remove"
	// ToolModeTruncate shortens tool payloads in place, never deleting.
	ToolModeTruncate ToolHandlingMode = "truncate"
)

// RemovalOptions configures the removal engine. Percentages convert to
// turn-index boundaries; turns below the boundary are in zone.
type RemovalOptions struct {
	ToolRemoval      int
	ToolHandlingMode ToolHandlingMode
	ThinkingRemoval  int
}

// Validate checks option ranges before any mutation.
func (o RemovalOptions) Validate() error {
	if o.ToolRemoval < 0 || o.ToolRemoval > 100 {
		return fmt.Errorf("%w: toolRemoval=%d", ErrInvalidPercentage, o.ToolRemoval)
	}
	if o.ThinkingRemoval < 0 || o.ThinkingRemoval > 100 {
		return fmt.Errorf("%w: thinkingRemoval=%d", ErrInvalidPercentage, o.ThinkingRemoval)
	}
	if o.ToolHandlingMode != ToolModeRemove && o.ToolHandlingMode != ToolModeTruncate {
		return fmt.Errorf("%w: %q", ErrInvalidToolMode, o.ToolHandlingMode)
	}
	return nil
}

// RemovalResult is the removal engine's output. Counts match exactly
// the number of elements removed or truncated.
type RemovalResult struct {
	Entries               []session.Entry
	ToolCallsRemoved      int
	ToolCallsTruncated    int
	ThinkingBlocksRemoved int
}

// ApplyRemovals applies boundary-based delete/truncate policies and
// returns a new entry sequence. Entries outside every in-zone range
// keep their source bytes untouched. Entries whose content becomes an
// empty block array are dropped entirely.
func ApplyRemovals(entries []session.Entry, opts RemovalOptions) (RemovalResult, error) {
	if err := opts.Validate(); err != nil {
		return RemovalResult{}, err
	}

	turns := IdentifyTurns(entries)
	toolZone := zone(turns, boundaryIndex(len(turns), opts.ToolRemoval), len(entries))
	thinkingZone := zone(turns, boundaryIndex(len(turns), opts.ThinkingRemoval), len(entries))

	// First pass for remove mode: collect the ids of every tool_use
	// block inside in-zone assistant entries, so the second pass can
	// also drop the tool_result blocks referencing them wherever they
	// live. Deleting a use without its result would orphan the result.
	removedIDs := map[string]bool{}
	if opts.ToolHandlingMode == ToolModeRemove {
		for i, entry := range entries {
			if !toolZone[i] || entry.Type != session.EntryTypeAssistant {
				continue
			}
			for _, block := range entry.Content.Blocks {
				if block.Type == session.BlockTypeToolUse {
					removedIDs[block.ToolID] = true
				}
			}
		}
	}

	result := RemovalResult{Entries: make([]session.Entry, 0, len(entries))}

	for i, entry := range entries {
		e := entry
		if e.Content.Kind != session.ContentBlocks {
			result.Entries = append(result.Entries, e)
			continue
		}

		blocks := e.Content.Blocks
		changed := false

		switch opts.ToolHandlingMode {
		case ToolModeRemove:
			kept := blocks[:0:0]
			for _, block := range blocks {
				switch {
				case toolZone[i] && e.Type == session.EntryTypeAssistant && block.Type == session.BlockTypeToolUse:
					result.ToolCallsRemoved++
					changed = true
				case block.Type == session.BlockTypeToolResult && removedIDs[block.ResultFor]:
					changed = true
				default:
					kept = append(kept, block)
				}
			}
			blocks = kept
		case ToolModeTruncate:
			if toolZone[i] {
				truncated := make([]session.Block, 0, len(blocks))
				for _, block := range blocks {
					out, didTruncate, err := truncateToolBlock(block)
					if err != nil {
						return RemovalResult{}, fmt.Errorf("truncating tool content: %w", err)
					}
					if didTruncate {
						result.ToolCallsTruncated++
						changed = true
					}
					truncated = append(truncated, out)
				}
				blocks = truncated
			}
		}

		if thinkingZone[i] && e.Type == session.EntryTypeAssistant {
			kept := blocks[:0:0]
			for _, block := range blocks {
				if block.Type == session.BlockTypeThinking {
					result.ThinkingBlocksRemoved++
					changed = true
					continue
				}
				kept = append(kept, block)
			}
			blocks = kept
		}

		if !changed {
			result.Entries = append(result.Entries, e)
			continue
		}
		if len(blocks) == 0 {
			// Never emit an entry with a present-but-empty content array.
			continue
		}
		if err := e.SetBlocks(blocks); err != nil {
			return RemovalResult{}, err
		}
		result.Entries = append(result.Entries, e)
	}

	return result, nil
}

// zone marks every entry index covered by a turn below the boundary.
func zone(turns []Turn, boundary, entryCount int) []bool {
	inZone := make([]bool, entryCount)
	for t := 0; t < boundary && t < len(turns); t++ {
		for i := turns[t].Start; i <= turns[t].End; i++ {
			inZone[i] = true
		}
	}
	return inZone
}

package transform

import (
	"github.com/fyrsmithlabs/sessiontrim/internal/compression"
	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// Stats describes what a trim did to a session.
type Stats struct {
	OriginalTurnCount     int                `json:"originalTurnCount"`
	OutputTurnCount       int                `json:"outputTurnCount"`
	ToolCallsRemoved      int                `json:"toolCallsRemoved"`
	ToolCallsTruncated    int                `json:"toolCallsTruncated,omitempty"`
	ThinkingBlocksRemoved int                `json:"thinkingBlocksRemoved"`
	Compression           *compression.Stats `json:"compression,omitempty"`
}

// TokenStats holds estimated token counts per accounting bucket.
type TokenStats struct {
	User      int `json:"user"`
	Assistant int `json:"assistant"`
	Tool      int `json:"tool"`
	Thinking  int `json:"thinking"`
	Total     int `json:"total"`
}

// ComputeTokenStats buckets a session's estimated tokens by owner role
// and content kind.
func ComputeTokenStats(entries []session.Entry) TokenStats {
	var stats TokenStats
	for _, entry := range entries {
		for _, span := range session.ContentSpans(entry) {
			tokens := session.EstimateTokens(span.Text)
			switch session.BucketFor(entry.Type, span.Class) {
			case session.BucketAssistant:
				stats.Assistant += tokens
			case session.BucketTool:
				stats.Tool += tokens
			case session.BucketThinking:
				stats.Thinking += tokens
			default:
				stats.User += tokens
			}
			stats.Total += tokens
		}
	}
	return stats
}

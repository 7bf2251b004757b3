package session

import (
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// tokensPerWord is the deliberately simple word-to-token heuristic.
// Deterministic and locale-independent; close enough for boundary and
// threshold decisions, which never need tokenizer-grade accuracy.
const tokensPerWord = 0.75

// EstimateTokens estimates the token count of text by word count.
// Empty or whitespace-only input yields 0.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) * tokensPerWord))
}

// EstimateContentTokens sums per-block estimates over an entry's
// content using the block extraction rule.
func EstimateContentTokens(c Content) int {
	switch c.Kind {
	case ContentString:
		return EstimateTokens(c.Text)
	case ContentBlocks:
		total := 0
		for _, block := range c.Blocks {
			total += EstimateTokens(BlockText(block))
		}
		return total
	default:
		return 0
	}
}

// unquote decodes a JSON string literal.
func unquote(s string) string {
	return gjson.Parse(s).String()
}

package session

import "strings"

// BlockClass is the transformation-facing classification of a content
// block. Both tool_use and tool_result classify as tool.
type BlockClass string

const (
	ClassText     BlockClass = "text"
	ClassTool     BlockClass = "tool"
	ClassThinking BlockClass = "thinking"
	ClassOther    BlockClass = "other"
)

// TokenBucket is the accounting bucket a block's tokens land in.
type TokenBucket string

const (
	BucketUser      TokenBucket = "user"
	BucketAssistant TokenBucket = "assistant"
	BucketTool      TokenBucket = "tool"
	BucketThinking  TokenBucket = "thinking"
)

// ClassifyBlock labels a content block by kind.
func ClassifyBlock(b Block) BlockClass {
	switch b.Type {
	case BlockTypeText:
		return ClassText
	case BlockTypeToolUse, BlockTypeToolResult:
		return ClassTool
	case BlockTypeThinking:
		return ClassThinking
	default:
		return ClassOther
	}
}

// BucketFor maps a block class to its token bucket. Text depends on the
// owning entry's role; tool and thinking bucket the same regardless of
// owner.
func BucketFor(entryType string, class BlockClass) TokenBucket {
	switch class {
	case ClassTool:
		return BucketTool
	case ClassThinking:
		return BucketThinking
	default:
		if entryType == EntryTypeAssistant {
			return BucketAssistant
		}
		return BucketUser
	}
}

// Span is a run of consecutive same-class blocks within one entry's
// content, merged into one logical unit.
type Span struct {
	Class BlockClass
	From  int // first block index, inclusive
	To    int // last block index, inclusive
	Text  string
}

// ContentSpans extracts merged spans from an entry with block content.
// Consecutive blocks of the same classified type collapse into a single
// span. String-content entries yield one text span with From/To of -1.
func ContentSpans(e Entry) []Span {
	switch e.Content.Kind {
	case ContentString:
		return []Span{{Class: ClassText, From: -1, To: -1, Text: e.Content.Text}}
	case ContentBlocks:
		// handled below
	default:
		return nil
	}

	var spans []Span
	for i, block := range e.Content.Blocks {
		class := ClassifyBlock(block)
		text := BlockText(block)
		if len(spans) > 0 && spans[len(spans)-1].Class == class {
			last := &spans[len(spans)-1]
			last.To = i
			if text != "" {
				if last.Text != "" {
					last.Text += "\n\n"
				}
				last.Text += text
			}
			continue
		}
		spans = append(spans, Span{Class: class, From: i, To: i, Text: text})
	}
	return spans
}

// BlockText extracts the textual payload of a block for estimation and
// compression: text and thinking carry their own text, tool_use carries
// its JSON-serialized input, tool_result carries its content raw when
// it is a string and JSON-serialized otherwise.
func BlockText(b Block) string {
	switch b.Type {
	case BlockTypeText:
		return b.Text
	case BlockTypeThinking:
		return b.Thinking
	case BlockTypeToolUse:
		return string(b.ToolInput)
	case BlockTypeToolResult:
		return rawOrString(b.ResultContent)
	default:
		return ""
	}
}

// rawOrString unwraps a JSON string value, returning anything else as
// its serialized form.
func rawOrString(raw []byte) string {
	s := string(raw)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return unquote(s)
	}
	return s
}

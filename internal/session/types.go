package session

import "encoding/json"

// Format identifies the on-disk session log format.
type Format int

const (
	// FormatClaudeJSONL is the line-delimited format: one JSON entry per line.
	FormatClaudeJSONL Format = iota
	// FormatVSCodeJSON is the single-document format with a requests array.
	FormatVSCodeJSON
)

func (f Format) String() string {
	if f == FormatVSCodeJSON {
		return "vscode-json"
	}
	return "claude-jsonl"
}

// MarshalJSON renders the format name rather than its ordinal.
func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// Entry type values as they appear in the top-level "type" field.
const (
	EntryTypeUser      = "user"
	EntryTypeAssistant = "assistant"
	EntryTypeSummary   = "summary"
)

// Content block type values as they appear in the block "type" field.
const (
	BlockTypeText       = "text"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
	BlockTypeThinking   = "thinking"
)

// ContentKind describes the shape of an entry's message.content field.
type ContentKind int

const (
	// ContentNone means the entry has no message content.
	ContentNone ContentKind = iota
	// ContentString means content is a plain string.
	ContentString
	// ContentBlocks means content is an ordered block array.
	ContentBlocks
)

// Block is one unit of message content. Unknown block types are carried
// through untouched; Type holds the raw "type" value and classification
// treats anything unrecognized as other.
type Block struct {
	Raw  []byte
	Type string

	// text blocks
	Text string

	// thinking blocks
	Thinking string

	// tool_use blocks
	ToolID    string
	ToolName  string
	ToolInput json.RawMessage

	// tool_result blocks
	ResultFor     string
	ResultContent json.RawMessage
}

// Content is an entry's message content: a plain string or a block list.
type Content struct {
	Kind   ContentKind
	Text   string
	Blocks []Block
}

// Entry is one record of a session log.
//
// Raw holds the entry's JSON source and is kept current through every
// mutation; serialization emits Raw verbatim. An empty ParentUUID means
// the field is absent or null in the source.
type Entry struct {
	Raw []byte

	Type       string
	UUID       string
	ParentUUID string
	SessionID  string
	IsMeta     bool
	Timestamp  string

	Content Content

	// Single-document bookkeeping. RequestIndex is -1 for JSONL entries.
	// Entries with Editable false cannot have their text rewritten in
	// place (for example a structured response the serializer cannot
	// address), so compression must leave them alone.
	RequestIndex int
	Editable     bool
	Dirty        bool
}

// Session is a parsed session log plus enough source state to serialize
// a transformed copy in the original format.
type Session struct {
	Format  Format
	Path    string
	ID      string
	Entries []Entry

	// DocRaw is the single-document source; nil for JSONL sessions.
	DocRaw []byte
}

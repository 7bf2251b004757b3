package compression

import (
	"errors"
	"time"
)

// Level is the compression intensity requested from the provider.
type Level string

const (
	// LevelCompress asks for a conservative rewrite.
	LevelCompress Level = "compress"
	// LevelHeavyCompress asks for an aggressive summary.
	LevelHeavyCompress Level = "heavy-compress"
)

// TaskStatus tracks a task through its state machine:
// pending → success, pending → failed, or pending → skipped.
// There are no backward transitions.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusSuccess TaskStatus = "success"
	StatusFailed  TaskStatus = "failed"
	StatusSkipped TaskStatus = "skipped"
)

// Band is a percentage range over turn indices carrying a compression
// level. Start is inclusive, End exclusive, both 0-100.
type Band struct {
	Start int
	End   int
	Level Level
}

// Task is one content span scheduled for rewrite.
type Task struct {
	ID         string
	EntryIndex int
	// Block index range of the span, inclusive. -1/-1 for entries with
	// plain string content.
	BlockFrom int
	BlockTo   int

	Text            string
	EstimatedTokens int
	Level           Level

	Status   TaskStatus
	Attempts int
	Result   string
	Err      error
}

// Stats aggregates batch results and token deltas.
type Stats struct {
	Compressed       int `json:"compressed"`
	Skipped          int `json:"skipped"`
	Failed           int `json:"failed"`
	OriginalTokens   int `json:"originalTokens"`
	CompressedTokens int `json:"compressedTokens"`
}

// Config holds orchestrator and provider settings.
type Config struct {
	Provider string `koanf:"provider"`

	// Subprocess provider.
	Command string `koanf:"command"`

	// HTTP and SDK providers.
	BaseURL    string `koanf:"base_url"`
	APIKey     string `koanf:"api_key"`
	Model      string `koanf:"model"`
	LargeModel string `koanf:"large_model"`

	// Orchestration.
	Concurrency         int           `koanf:"concurrency"`
	MinTokens           int           `koanf:"min_tokens"`
	MaxAttempts         int           `koanf:"max_attempts"`
	TimeoutInitial      time.Duration `koanf:"timeout_initial"`
	TimeoutIncrement    time.Duration `koanf:"timeout_increment"`
	LargeModelThreshold int           `koanf:"large_model_threshold"`
	RequestsPerSecond   float64       `koanf:"requests_per_second"`
}

// Validation errors.
var (
	ErrInvalidBand     = errors.New("band start must be below band end, both within 0-100")
	ErrOverlappingBand = errors.New("compression bands must not overlap")
	ErrInvalidLevel    = errors.New("unknown compression level")
	ErrUnknownProvider = errors.New("unknown compression provider")
	ErrEmptyResponse   = errors.New("provider returned empty response")
)

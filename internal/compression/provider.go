package compression

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
)

// Default models. The large model handles spans whose estimated size
// crosses the configured threshold.
const (
	defaultModel      = "claude-3-haiku-20240307"
	defaultLargeModel = "claude-3-5-sonnet-20241022"
)

// Provider is the single capability the engine needs from a
// summarizer backend.
type Provider interface {
	Compress(ctx context.Context, text string, level Level, useLargeModel bool) (string, error)
}

// NewProvider selects a provider implementation from configuration.
// Dispatch happens once here; callers hold the interface.
func NewProvider(cfg Config, log *logging.Logger) (Provider, error) {
	switch cfg.Provider {
	case "cli":
		return NewCLIProvider(cfg, log)
	case "http":
		return NewHTTPProvider(cfg, log)
	case "sdk":
		return NewSDKProvider(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// buildPrompt renders the rewrite instruction for a level. The prompt
// demands bare output so responses can be applied verbatim.
func buildPrompt(text string, level Level) string {
	instruction := "Compress the following text to roughly half its length while preserving all key information, technical terms, file paths, and code fragments."
	if level == LevelHeavyCompress {
		instruction = "Summarize the following text as aggressively as possible while keeping every decision, file path, error message, and identifier needed to reconstruct context. Aim for a small fraction of the original length."
	}

	return fmt.Sprintf(`%s

Text to compress:
%s

Provide only the compressed version without any explanations or meta-commentary.`, instruction, text)
}

// pickModel applies the large-model escalation rule.
func pickModel(cfg Config, useLargeModel bool) string {
	if useLargeModel {
		if cfg.LargeModel != "" {
			return cfg.LargeModel
		}
		return defaultLargeModel
	}
	if cfg.Model != "" {
		return cfg.Model
	}
	return defaultModel
}

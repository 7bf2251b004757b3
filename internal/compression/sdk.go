package compression

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
)

// SDKProvider uses the official Anthropic Go SDK.
type SDKProvider struct {
	client anthropic.Client
	config Config
	log    *logging.Logger
}

// NewSDKProvider creates an SDK-backed provider. An empty API key is
// allowed here because the SDK also reads ANTHROPIC_API_KEY from the
// environment.
func NewSDKProvider(cfg Config, log *logging.Logger) (*SDKProvider, error) {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &SDKProvider{
		client: anthropic.NewClient(opts...),
		config: cfg,
		log:    log.Named("sdk-provider"),
	}, nil
}

// Compress rewrites text through the SDK's Messages API.
func (p *SDKProvider) Compress(ctx context.Context, text string, level Level, useLargeModel bool) (string, error) {
	model := pickModel(p.config, useLargeModel)

	p.log.Debug("compression request", zap.String("model", model), zap.Int("input_chars", len(text)))

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxOutputTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text, level))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(textBlock.Text)
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

var _ Provider = (*SDKProvider)(nil)

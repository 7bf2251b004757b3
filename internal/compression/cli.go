package compression

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
)

// CLIProvider shells out to a local assistant CLI for each rewrite.
// The command receives the prompt on stdin and must print only the
// compressed text on stdout.
type CLIProvider struct {
	command string
	config  Config
	log     *logging.Logger
}

// NewCLIProvider creates a subprocess-backed provider.
func NewCLIProvider(cfg Config, log *logging.Logger) (*CLIProvider, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("command is required for the cli provider")
	}
	return &CLIProvider{
		command: cfg.Command,
		config:  cfg,
		log:     log.Named("cli-provider"),
	}, nil
}

// Compress runs one subprocess per call. The context bounds the whole
// child process lifetime, so a hung CLI cannot outlive its task
// timeout.
func (p *CLIProvider) Compress(ctx context.Context, text string, level Level, useLargeModel bool) (string, error) {
	model := pickModel(p.config, useLargeModel)

	cmd := exec.CommandContext(ctx, p.command, "-p", "--model", model)
	cmd.Stdin = strings.NewReader(buildPrompt(text, level))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.log.Debug("running compression subprocess",
		zap.String("command", p.command),
		zap.String("model", model))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("subprocess canceled: %w", ctx.Err())
		}
		return "", fmt.Errorf("subprocess failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

var _ Provider = (*CLIProvider)(nil)

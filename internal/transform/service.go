package transform

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sessiontrim/internal/compression"
	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
	"github.com/fyrsmithlabs/sessiontrim/internal/session"
)

// TrimOptions configures one trim operation.
type TrimOptions struct {
	Removal RemovalOptions
	Bands   []compression.Band
	// DryRun computes stats without writing output.
	DryRun bool
}

// TrimResult reports the outcome of a trim.
type TrimResult struct {
	NewSessionID string
	OutputPath   string
	Stats        Stats
}

// Service runs the full transformation pipeline over a parsed session.
type Service struct {
	provider     compression.Provider
	orchestrator *compression.Orchestrator
	log          *logging.Logger
}

// NewService creates a transform service. A nil provider disables
// compression; bands then fail validation at trim time.
func NewService(provider compression.Provider, cfg compression.Config, log *logging.Logger) *Service {
	s := &Service{
		provider: provider,
		log:      log.Named("transform"),
	}
	if provider != nil {
		s.orchestrator = compression.NewOrchestrator(provider, cfg, log)
	}
	return s
}

// Trim produces a derivative log: removal policies, chain repair,
// optional banded compression, then assembly under a new session
// identity. All validation happens before any mutation; a fatal error
// leaves the filesystem unchanged.
func (s *Service) Trim(ctx context.Context, sess *session.Session, opts TrimOptions) (*TrimResult, error) {
	if err := opts.Removal.Validate(); err != nil {
		return nil, err
	}
	if len(opts.Bands) > 0 {
		if err := compression.ValidateBands(opts.Bands); err != nil {
			return nil, err
		}
		if s.provider == nil {
			return nil, fmt.Errorf("compression bands given but no provider configured")
		}
	}

	originalTurns := IdentifyTurns(sess.Entries)

	removal, err := ApplyRemovals(sess.Entries, opts.Removal)
	if err != nil {
		return nil, err
	}

	entries, err := RepairParentUUIDChain(removal.Entries)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		OriginalTurnCount:     len(originalTurns),
		ToolCallsRemoved:      removal.ToolCallsRemoved,
		ToolCallsTruncated:    removal.ToolCallsTruncated,
		ThinkingBlocksRemoved: removal.ThinkingBlocksRemoved,
	}

	if len(opts.Bands) > 0 {
		entries, stats.Compression, err = s.compress(ctx, entries, opts.Bands)
		if err != nil {
			return nil, err
		}
	}

	stats.OutputTurnCount = len(IdentifyTurns(entries))

	newID, data, err := Assemble(sess, entries, time.Now())
	if err != nil {
		return nil, err
	}

	result := &TrimResult{
		NewSessionID: newID,
		OutputPath:   sess.OutputPath(newID),
		Stats:        stats,
	}

	if opts.DryRun {
		s.log.Info("dry run, skipping write", zap.String("would_write", result.OutputPath))
		return result, nil
	}

	if err := WriteFileAtomic(result.OutputPath, data); err != nil {
		return nil, err
	}
	s.log.Info("wrote derivative session",
		zap.String("path", result.OutputPath),
		zap.String("session_id", newID),
		zap.Int("turns", stats.OutputTurnCount))

	return result, nil
}

func (s *Service) compress(ctx context.Context, entries []session.Entry, bands []compression.Band) ([]session.Entry, *compression.Stats, error) {
	turns := IdentifyTurns(entries)
	levels, err := compression.MapTurnsToBands(len(turns), bands)
	if err != nil {
		return nil, nil, err
	}

	tasks := BuildTasks(entries, turns, levels)
	s.log.Info("compressing session content",
		zap.Int("tasks", len(tasks)),
		zap.Int("turns", len(turns)))

	settled := s.orchestrator.Run(ctx, tasks)

	// An aborted operation must not apply any result, even those that
	// finished before the abort.
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	entries, err = ApplyCompression(entries, settled)
	if err != nil {
		return nil, nil, err
	}

	stats := compression.StatsFrom(settled)
	return entries, &stats, nil
}

// BuildTasks collects eligible text spans from banded turns. Meta and
// non-editable entries are excluded; tool and thinking spans are the
// removal engine's business, not the summarizer's.
func BuildTasks(entries []session.Entry, turns []Turn, levels []compression.Level) []compression.Task {
	var tasks []compression.Task
	for t, turn := range turns {
		if t >= len(levels) || levels[t] == "" {
			continue
		}
		for i := turn.Start; i <= turn.End; i++ {
			entry := entries[i]
			if entry.IsMeta || !entry.Editable {
				continue
			}
			for _, span := range session.ContentSpans(entry) {
				if span.Class != session.ClassText || strings.TrimSpace(span.Text) == "" {
					continue
				}
				tasks = append(tasks, compression.Task{
					ID:              uuid.NewString(),
					EntryIndex:      i,
					BlockFrom:       span.From,
					BlockTo:         span.To,
					Text:            span.Text,
					EstimatedTokens: session.EstimateTokens(span.Text),
					Level:           levels[t],
					Status:          compression.StatusPending,
				})
			}
		}
	}
	return tasks
}

// ApplyCompression writes successful task results back to their
// original message positions. Failed and skipped tasks leave their
// spans untouched. Spans within one entry are applied from the highest
// block index down so earlier indices stay valid as merged blocks
// collapse.
func ApplyCompression(entries []session.Entry, tasks []compression.Task) ([]session.Entry, error) {
	out := make([]session.Entry, len(entries))
	copy(out, entries)

	byEntry := make(map[int][]compression.Task)
	for _, task := range tasks {
		if task.Status != compression.StatusSuccess {
			continue
		}
		byEntry[task.EntryIndex] = append(byEntry[task.EntryIndex], task)
	}

	for entryIdx, entryTasks := range byEntry {
		entry := &out[entryIdx]

		sort.Slice(entryTasks, func(i, j int) bool {
			return entryTasks[i].BlockFrom > entryTasks[j].BlockFrom
		})

		for _, task := range entryTasks {
			if task.BlockFrom < 0 {
				if err := entry.SetText(task.Result); err != nil {
					return nil, err
				}
				continue
			}

			blocks := entry.Content.Blocks
			if task.BlockFrom >= len(blocks) || task.BlockTo >= len(blocks) {
				return nil, fmt.Errorf("task %s references block %d-%d beyond content length %d",
					task.ID, task.BlockFrom, task.BlockTo, len(blocks))
			}

			merged, err := blocks[task.BlockFrom].WithText(task.Result)
			if err != nil {
				return nil, err
			}

			rebuilt := make([]session.Block, 0, len(blocks)-(task.BlockTo-task.BlockFrom))
			rebuilt = append(rebuilt, blocks[:task.BlockFrom]...)
			rebuilt = append(rebuilt, merged)
			rebuilt = append(rebuilt, blocks[task.BlockTo+1:]...)

			if err := entry.SetBlocks(rebuilt); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

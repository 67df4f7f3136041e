// Package orchestrator runs one filter-and-act pass over a region's instances.
package orchestrator

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/younsl/ec2tags/internal/models"
	"github.com/younsl/ec2tags/pkg/policy"
	"github.com/younsl/ec2tags/pkg/utils"
)

// DefaultConcurrency is the number of instances acted upon at the same time
const DefaultConcurrency = 4

// InstanceSource enumerates the instances of a region
type InstanceSource interface {
	Instances(ctx context.Context) iter.Seq2[models.Instance, error]
}

// ActionExecutor performs an action on a single instance
type ActionExecutor interface {
	Execute(ctx context.Context, action models.Action, inst models.Instance) (models.ActionResult, error)
}

// Options describe a single pass
type Options struct {
	Region string
	Action models.Action
	Mode   models.SelectionMode
}

// Summary describes what a pass did
type Summary struct {
	Region    string
	Action    models.Action
	Mode      models.SelectionMode
	Scanned   int
	Skipped   int
	Eligible  int
	Results   []models.ActionResult
	Performed bool
	StartedAt time.Time
	Duration  time.Duration
}

// PerformedCount returns how many instances were acted upon
func (s *Summary) PerformedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Performed {
			n++
		}
	}
	return n
}

// Orchestrator wires the instance source, the selection policy and the executor
type Orchestrator struct {
	source      InstanceSource
	executor    ActionExecutor
	logger      zerolog.Logger
	concurrency int
}

// New creates an orchestrator. A concurrency below one uses DefaultConcurrency.
func New(source InstanceSource, executor ActionExecutor, logger zerolog.Logger, concurrency int) *Orchestrator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		source:      source,
		executor:    executor,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run evaluates every instance and acts on the eligible ones.
// Instances are independent: a soft failure on one does not stop the others,
// while a hard provider error cancels the pass and is returned together with
// the partial summary.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	if !opts.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidAction, opts.Action)
	}

	summary := &Summary{
		Region:    opts.Region,
		Action:    opts.Action,
		Mode:      opts.Mode,
		StartedAt: time.Now(),
	}

	logger := o.logger.With().
		Str("region", opts.Region).
		Str("action", string(opts.Action)).
		Str("selection", opts.Mode.String()).
		Logger()
	logger.Debug().Int("concurrency", o.concurrency).Msg("starting pass")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	var performed atomic.Bool
	// each task writes only its own slot
	var slots []*models.ActionResult

	var sourceErr error
	for inst, err := range o.source.Instances(gctx) {
		if err != nil {
			sourceErr = err
			break
		}
		summary.Scanned++

		if !policy.IsActionable(opts.Action, inst.State) {
			summary.Skipped++
			logger.Debug().Str("instance_id", inst.ID).Str("state", string(inst.State)).Msg("state not actionable")
			continue
		}
		if !policy.ShouldAct(opts.Mode, inst.Tags) {
			summary.Skipped++
			logger.Debug().Str("instance_id", inst.ID).Interface("tags", utils.TagsToMap(inst.Tags)).Msg("not selected by tags")
			continue
		}

		// a hard failure cancelled the pass; do not dispatch more commands
		if gctx.Err() != nil {
			break
		}

		summary.Eligible++
		slot := &models.ActionResult{Instance: inst, Action: opts.Action}
		slots = append(slots, slot)

		g.Go(func() error {
			result, err := o.executor.Execute(gctx, opts.Action, inst)
			if err != nil {
				slot.Err = err
				return err
			}
			*slot = result
			if result.Performed {
				performed.Store(true)
			}
			return nil
		})
	}

	waitErr := g.Wait()

	summary.Results = make([]models.ActionResult, 0, len(slots))
	for _, slot := range slots {
		summary.Results = append(summary.Results, *slot)
	}
	summary.Performed = performed.Load()
	summary.Duration = time.Since(summary.StartedAt)

	// a task failure cancels gctx, which also surfaces as a source error
	if waitErr != nil {
		return summary, waitErr
	}
	if sourceErr != nil {
		return summary, sourceErr
	}

	if !summary.Performed {
		logger.Info().Msg("Nothing to do...")
	}
	logger.Debug().
		Int("scanned", summary.Scanned).
		Int("eligible", summary.Eligible).
		Int("performed", summary.PerformedCount()).
		Dur("duration", summary.Duration).
		Msg("pass finished")

	return summary, nil
}

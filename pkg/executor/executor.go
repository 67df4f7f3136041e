// Package executor sends stop and terminate commands for selected instances.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/younsl/ec2tags/internal/models"
)

// DefaultCallTimeout bounds a single stop or terminate request
const DefaultCallTimeout = 30 * time.Second

// CommandSink issues instance commands against the provider
type CommandSink interface {
	StopInstance(ctx context.Context, id string) error
	TerminateInstance(ctx context.Context, id string) error
}

// Options configure executor behavior
type Options struct {
	// CallTimeout applies to each provider call; zero means DefaultCallTimeout
	CallTimeout time.Duration
	// DryRun logs what would happen without sending commands
	DryRun bool
}

// Executor performs actions on single instances
type Executor struct {
	sink   CommandSink
	logger zerolog.Logger
	opts   Options
}

// New creates an executor sending commands to sink
func New(sink CommandSink, logger zerolog.Logger, opts Options) *Executor {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	return &Executor{
		sink:   sink,
		logger: logger,
		opts:   opts,
	}
}

// Execute performs action on the instance.
//
// A stop rejected because of the instance state, and any call that runs past
// the call timeout, is reported as a soft failure: Performed is false, the
// result carries the error and the returned error is nil. Every other
// provider error is returned.
func (e *Executor) Execute(ctx context.Context, action models.Action, inst models.Instance) (models.ActionResult, error) {
	result := models.ActionResult{Instance: inst, Action: action}
	if !action.Valid() {
		return result, fmt.Errorf("%w: %q", models.ErrInvalidAction, action)
	}

	logger := e.logger.With().
		Str("instance_id", inst.ID).
		Str("action", string(action)).
		Logger()

	if e.opts.DryRun {
		result.Performed = true
		result.DryRun = true
		logger.Info().Msgf("Instance with id %q would be %s (dry run)", inst.ID, action.PastTense())
		return result, nil
	}

	err := e.send(ctx, action, inst.ID)
	if err == nil {
		result.Performed = true
		logger.Info().Msgf("Instance with id %q %s...", inst.ID, action.PastTense())
		return result, nil
	}

	reason, soft := e.softFailure(ctx, action, err)
	if !soft {
		return result, err
	}

	result.Err = err
	logger.Warn().Err(err).Msgf("Error: %s. Try later...", reason)
	return result, nil
}

func (e *Executor) send(ctx context.Context, action models.Action, id string) error {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	switch action {
	case models.ActionTerminate:
		return e.sink.TerminateInstance(callCtx, id)
	default:
		return e.sink.StopInstance(callCtx, id)
	}
}

// softFailure reports whether err should be downgraded, and the message to log
func (e *Executor) softFailure(ctx context.Context, action models.Action, err error) (string, bool) {
	var conflict *models.StateConflictError
	if action == models.ActionStop && errors.As(err, &conflict) {
		return conflict.Message, true
	}

	// the per-call deadline expired while the run itself is still alive
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Sprintf("request timed out after %s", e.opts.CallTimeout), true
	}

	return "", false
}

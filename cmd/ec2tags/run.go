package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/younsl/ec2tags/internal/config"
	"github.com/younsl/ec2tags/internal/logging"
	"github.com/younsl/ec2tags/internal/models"
	"github.com/younsl/ec2tags/pkg/aws"
	"github.com/younsl/ec2tags/pkg/executor"
	"github.com/younsl/ec2tags/pkg/formatter"
	"github.com/younsl/ec2tags/pkg/orchestrator"
	"github.com/younsl/ec2tags/pkg/pricing"
)

func run(cmd *cobra.Command, f *flags, rawAction string) error {
	action, err := models.ParseAction(rawAction)
	if err != nil {
		return err
	}

	mode, err := selectionMode(cmd.Flags(), f)
	if err != nil {
		return err
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), f, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	detect := func(ctx context.Context) (string, error) {
		return aws.DetectRegion(ctx, aws.NewMetadataClient())
	}
	region := resolveRegion(ctx, cfg, detect, logger)

	client, err := aws.NewEC2Client(ctx, region, cfg.AWS.Profile)
	if err != nil {
		return err
	}

	exec := executor.New(client, logger, executor.Options{
		CallTimeout: cfg.Run.CallTimeout,
		DryRun:      cfg.Run.DryRun,
	})
	orch := orchestrator.New(client, exec, logger, cfg.Run.Concurrency)

	logger.Debug().
		Str("region", region).
		Str("action", string(action)).
		Str("selection", mode.String()).
		Bool("dryRun", cfg.Run.DryRun).
		Msg("Starting pass")

	summary, runErr := orch.Run(ctx, orchestrator.Options{
		Region: region,
		Action: action,
		Mode:   mode,
	})
	if summary == nil {
		return runErr
	}

	var estimator *pricing.Estimator
	var estimates map[string]pricing.Estimate
	if cfg.Pricing.Enabled && runErr == nil {
		estimator, estimates = estimateSavings(ctx, cfg, summary, cmd.ErrOrStderr(), logger)
	}

	out := cmd.OutOrStdout()
	formatter.PrintActionReport(out, summary, estimates)
	if estimator != nil {
		formatter.PrintPricingAPIStats(out, estimator.Stats().Snapshot())
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("interrupted: %w", runErr)
		}
		return runErr
	}
	return nil
}

// estimateSavings prices every eligible instance. Pricing failures never fail the run.
func estimateSavings(ctx context.Context, cfg *config.Config, summary *orchestrator.Summary, progress io.Writer, logger zerolog.Logger) (*pricing.Estimator, map[string]pricing.Estimate) {
	client, err := pricing.NewClient(ctx, cfg.Pricing.Region, cfg.AWS.Profile)
	if err != nil {
		logger.Warn().Err(err).Msg("Savings estimate disabled")
		return nil, nil
	}

	estimator := pricing.NewEstimator(client, pricing.Options{
		Progress: progress,
		Logger:   logger,
	})

	estimates := make(map[string]pricing.Estimate, len(summary.Results))
	for _, r := range summary.Results {
		if r.Instance.InstanceType == "" {
			continue
		}
		estimates[r.Instance.ID] = estimator.Estimate(ctx, r.Instance.InstanceType, summary.Region)
	}
	return estimator, estimates
}

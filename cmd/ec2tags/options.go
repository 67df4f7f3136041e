package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/younsl/ec2tags/internal/config"
	"github.com/younsl/ec2tags/internal/models"
	"github.com/younsl/ec2tags/pkg/utils"
)

var (
	errNoNameWithTag   = errors.New("--no-name cannot be combined with --tag-key or --tag-value")
	errValueWithoutKey = errors.New("--tag-value requires --tag-key")
	errEmptyTagKey     = errors.New("--tag-key must not be empty")
)

// selectionMode builds the selection rule from the selection flags
func selectionMode(fs *pflag.FlagSet, f *flags) (models.SelectionMode, error) {
	keySet := fs.Changed("tag-key")
	valueSet := fs.Changed("tag-value")

	switch {
	case f.noName && (keySet || valueSet):
		return models.SelectionMode{}, errNoNameWithTag
	case f.noName:
		return models.NoNameTag(), nil
	case valueSet && !keySet:
		return models.SelectionMode{}, errValueWithoutKey
	case keySet && f.tagKey == "":
		return models.SelectionMode{}, errEmptyTagKey
	case keySet:
		return models.SpecificTag(f.tagKey, f.tagValue), nil
	default:
		return models.NoTags(), nil
	}
}

// applyFlags overrides config values with flags set on the command line
func applyFlags(fs *pflag.FlagSet, f *flags, cfg *config.Config) {
	if fs.Changed("region") {
		cfg.AWS.Region = f.region
	}
	if fs.Changed("dry-run") {
		cfg.Run.DryRun = f.dryRun
	}
	if fs.Changed("concurrency") {
		cfg.Run.Concurrency = f.concurrency
	}
	if fs.Changed("timeout") {
		cfg.Run.CallTimeout = f.timeout
		cfg.Run.CallTimeoutStr = f.timeout.String()
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if fs.Changed("estimate-savings") {
		cfg.Pricing.Enabled = f.estimateSavings
	}
}

// regionDetector looks up the region of the host, e.g. from instance metadata
type regionDetector func(ctx context.Context) (string, error)

// resolveRegion picks the region to scan.
// Explicit configuration wins, then detection when enabled, then the default.
func resolveRegion(ctx context.Context, cfg *config.Config, detect regionDetector, logger zerolog.Logger) string {
	region := cfg.AWS.Region

	if region == "" && cfg.AWS.DetectRegion && detect != nil {
		detected, err := detect(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Region detection failed, using default region")
		} else {
			logger.Debug().Str("region", detected).Msg("Region detected from instance metadata")
			region = detected
		}
	}

	if region == "" {
		region = utils.DefaultRegion
	}

	if !utils.IsValidRegion(region) {
		logger.Warn().Str("region", region).Msg("Unknown region, the request may fail")
	}

	return region
}

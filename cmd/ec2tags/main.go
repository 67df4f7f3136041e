package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/younsl/ec2tags/internal/version"
)

// flags holds the raw command line values before they are merged into config
type flags struct {
	region          string
	noName          bool
	tagKey          string
	tagValue        string
	configPath      string
	dryRun          bool
	concurrency     int
	timeout         time.Duration
	logLevel        string
	logFormat       string
	estimateSavings bool
	showVersion     bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "ec2tags stop|terminate",
		Short: "Stop or terminate EC2 instances selected by their tags",
		Long: `ec2tags scans the EC2 instances of one region and stops or terminates
the ones selected by a tag rule.

Without a selection flag, instances that carry no tags at all are selected.`,
		Example: `  ec2tags stop -r eu-west-1
  ec2tags stop -n
  ec2tags terminate -k env -v dev --dry-run`,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		ValidArgs:     []string{"stop", "terminate"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return nil
			}
			return run(cmd, f, args[0])
		},
	}

	bindFlags(rootCmd.Flags(), f)
	rootCmd.MarkFlagsMutuallyExclusive("no-name", "tag-key")
	rootCmd.MarkFlagsMutuallyExclusive("no-name", "tag-value")

	return rootCmd
}

// bindFlags registers the command line flags on fs
func bindFlags(fs *pflag.FlagSet, f *flags) {
	fs.StringVarP(&f.region, "region", "r", "", "AWS region to scan (default: config, metadata or eu-west-1)")
	fs.BoolVarP(&f.noName, "no-name", "n", false, "Select instances without a Name tag")
	fs.StringVarP(&f.tagKey, "tag-key", "k", "", "Select instances carrying this tag key")
	fs.StringVarP(&f.tagValue, "tag-value", "v", "", "Require the tag selected by --tag-key to have this value")
	fs.StringVarP(&f.configPath, "config", "c", "", "Path to a TOML config file")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Evaluate instances without sending any command")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Maximum number of concurrent instance commands (default 4)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Timeout for each stop or terminate call (default 30s)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: console or json (default console)")
	fs.BoolVar(&f.estimateSavings, "estimate-savings", false, "Estimate monthly on-demand cost of acted instances")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/younsl/ec2tags/pkg/orchestrator"
	"github.com/younsl/ec2tags/pkg/pricing"
	"github.com/younsl/ec2tags/pkg/utils"
)

const maxNameWidth = 32

// PrintActionReport prints one row per eligible instance with its outcome.
// estimates is keyed by instance ID and may be nil.
func PrintActionReport(out io.Writer, summary *orchestrator.Summary, estimates map[string]pricing.Estimate) {
	// kubectl style tabwriter
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	printTimestamp(w, summary.StartedAt, summary.Duration)
	fmt.Fprintf(w, "Region: %s  Action: %s  Selection: %s  Scanned: %d\n",
		summary.Region, summary.Action, summary.Mode, summary.Scanned)

	if len(summary.Results) == 0 {
		fmt.Fprintln(w, "No instances matched.")
		w.Flush()
		return
	}

	fmt.Fprintln(w, "INSTANCE ID\tNAME\tTYPE\tSTATE\tLAUNCHED\tRESULT\tCOST/MO")

	var totalCost float64
	for _, r := range summary.Results {
		inst := r.Instance

		cost := "-"
		if est, ok := estimates[inst.ID]; ok {
			cost = formatCost(est)
			if r.Performed && est.Available() {
				totalCost += est.MonthlyCost
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inst.ID,
			getInstanceName(utils.GetName(inst.Tags)),
			valueOrDash(inst.InstanceType),
			valueOrDash(string(inst.State)),
			launchedAgo(inst.LaunchTime.IsZero(), inst.LaunchTime),
			r.Status(),
			cost,
		)
	}

	printTotals(w, summary, estimates != nil, totalCost)
	w.Flush()
}

// getInstanceName returns a display name or <unnamed> if empty
func getInstanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return TruncateToWidth(name, maxNameWidth)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatCost(est pricing.Estimate) string {
	if !est.Available() {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", est.MonthlyCost)
}

// printTotals prints the summary line at the bottom of the table
func printTotals(w io.Writer, summary *orchestrator.Summary, withCost bool, totalCost float64) {
	cost := ""
	if withCost {
		cost = fmt.Sprintf("$%.2f", totalCost)
	}
	fmt.Fprintf(w, "Total:\t\t\t\t\t%s/%s\t%s\n",
		humanize.Comma(int64(summary.PerformedCount())),
		humanize.Comma(int64(len(summary.Results))),
		cost,
	)
}

package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/younsl/ec2tags/pkg/pricing"
)

// PrintPricingAPIStats prints the statistics of pricing API calls
func PrintPricingAPIStats(out io.Writer, stats map[string]map[string]pricing.CallStats) {
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(out, "\n## AWS Pricing API Call Statistics")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tREGION\tAPI CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")

	services := make([]string, 0, len(stats))
	for service := range stats {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		regions := make([]string, 0, len(stats[service]))
		for region := range stats[service] {
			regions = append(regions, region)
		}
		sort.Strings(regions)

		for _, region := range regions {
			s := stats[service][region]
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
				service,
				region,
				s.Total(),
				s.Success,
				s.Failure,
				s.Cache,
				s.SuccessRate(),
			)
		}
	}

	w.Flush()
}

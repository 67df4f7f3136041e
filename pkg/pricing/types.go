package pricing

// PricingSource represents the source of pricing information
type PricingSource string

const (
	// PricingSourceAPI indicates pricing data came from AWS API
	PricingSourceAPI PricingSource = "API"

	// PricingSourceCache indicates pricing data came from cache
	PricingSourceCache PricingSource = "Cache"

	// PricingSourceNA indicates pricing data is not available
	PricingSourceNA PricingSource = "N/A"
)

// HoursPerMonth approximates a month as 365 days / 12 months * 24 hours
const HoursPerMonth = 730.0

// DefaultPricingRegion hosts the Pricing API endpoint (also available in ap-south-1)
const DefaultPricingRegion = "us-east-1"

// Estimate is the on-demand cost of running one instance type in a region
type Estimate struct {
	InstanceType string
	Region       string
	HourlyPrice  float64
	MonthlyCost  float64
	Source       PricingSource
}

// Available reports whether a price was found
func (e Estimate) Available() bool {
	return e.Source != PricingSourceNA
}

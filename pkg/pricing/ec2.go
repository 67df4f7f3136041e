package pricing

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog"
	"github.com/younsl/ec2tags/pkg/utils"
)

const (
	ec2ServiceCode = "AmazonEC2"
	ec2StatsKey    = "EC2"
	requestTimeout = 5 * time.Second
)

// Options configure an Estimator
type Options struct {
	// Progress receives a spinner while requests run; nil disables it
	Progress io.Writer
	Logger   zerolog.Logger
}

// Estimator looks up and caches EC2 on-demand prices
type Estimator struct {
	client   ProductsAPI
	progress *progress
	logger   zerolog.Logger
	stats    *Stats

	mu    sync.RWMutex
	cache map[string]float64 // region:instanceType -> hourly USD
}

// NewEstimator creates an estimator backed by the Pricing API client
func NewEstimator(client ProductsAPI, opts Options) *Estimator {
	return &Estimator{
		client:   client,
		progress: newProgress(opts.Progress),
		logger:   opts.Logger,
		stats:    NewStats(),
		cache:    make(map[string]float64),
	}
}

// Stats returns the API call statistics collected so far
func (e *Estimator) Stats() *Stats {
	return e.stats
}

// Estimate returns the monthly on-demand cost of an instance type in a region.
// Failures are logged and reported with the N/A source.
func (e *Estimator) Estimate(ctx context.Context, instanceType, region string) Estimate {
	hourly, source := e.hourlyPrice(ctx, instanceType, region)
	est := Estimate{
		InstanceType: instanceType,
		Region:       region,
		Source:       source,
	}
	if source != PricingSourceNA {
		est.HourlyPrice = hourly
		est.MonthlyCost = hourly * HoursPerMonth
	}
	return est
}

func (e *Estimator) hourlyPrice(ctx context.Context, instanceType, region string) (float64, PricingSource) {
	cacheKey := fmt.Sprintf("%s:%s", region, instanceType)

	e.mu.RLock()
	price, exists := e.cache[cacheKey]
	e.mu.RUnlock()
	if exists {
		e.stats.record(ec2StatsKey, region, statCache)
		return price, PricingSourceCache
	}

	price, err := e.fetchEC2Price(ctx, instanceType, region)
	if err != nil {
		e.stats.record(ec2StatsKey, region, statFailure)
		e.logger.Warn().Err(err).
			Str("instance_type", instanceType).
			Str("region", region).
			Msg("price lookup failed")
		return 0, PricingSourceNA
	}

	e.stats.record(ec2StatsKey, region, statSuccess)
	e.mu.Lock()
	e.cache[cacheKey] = price
	e.mu.Unlock()

	return price, PricingSourceAPI
}

// fetchEC2Price retrieves the Linux shared-tenancy on-demand price
func (e *Estimator) fetchEC2Price(ctx context.Context, instanceType, region string) (float64, error) {
	if instanceType == "" {
		return 0, fmt.Errorf("instance type unknown")
	}
	location := utils.GetRegionDescriptiveName(region)
	if location == "" {
		return 0, fmt.Errorf("no pricing location known for region %s", region)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	priceJSON, err := e.getPriceFromAPI(ctx, ec2ServiceCode, ec2Filters(instanceType, location), instanceType, location)
	if err != nil {
		return 0, err
	}

	return ExtractOnDemandPrice(priceJSON)
}

func ec2Filters(instanceType, location string) []types.Filter {
	terms := []struct{ field, value string }{
		{"instanceType", instanceType},
		{"location", location},
		{"operatingSystem", "Linux"},
		{"tenancy", "Shared"},
		{"preInstalledSw", "NA"},
		{"capacitystatus", "Used"},
	}

	filters := make([]types.Filter, 0, len(terms))
	for _, t := range terms {
		filters = append(filters, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(t.field),
			Value: aws.String(t.value),
		})
	}
	return filters
}

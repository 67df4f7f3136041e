package pricing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/briandowns/spinner"
)

// ProductsAPI defines the Pricing API operations used by the estimator
type ProductsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// NewClient creates a Pricing API client.
// The Pricing API is only available in us-east-1 and ap-south-1.
func NewClient(ctx context.Context, pricingRegion, profile string) (ProductsAPI, error) {
	if pricingRegion == "" {
		pricingRegion = DefaultPricingRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(pricingRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for pricing API: %w", err)
	}
	return pricing.NewFromConfig(cfg), nil
}

// progress shows a spinner while pricing requests are in flight
type progress struct {
	s *spinner.Spinner
}

func newProgress(w io.Writer) *progress {
	if w == nil {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Color("green")
	return &progress{s: s}
}

func (p *progress) start(resourceType, location string) {
	if p == nil {
		return
	}
	p.s.Suffix = fmt.Sprintf(" Retrieving EC2 pricing for %s in %s", resourceType, location)
	p.s.Start()
}

func (p *progress) stop() {
	if p == nil {
		return
	}
	p.s.Stop()
}

// getPriceFromAPI returns the first product document matching the filters
func (e *Estimator) getPriceFromAPI(ctx context.Context, serviceCode string, filters []types.Filter, resourceType, location string) (string, error) {
	e.progress.start(resourceType, location)
	defer e.progress.stop()

	resp, err := e.client.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("error calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return "", fmt.Errorf("no pricing found for %s in %s", resourceType, location)
	}

	return resp.PriceList[0], nil
}

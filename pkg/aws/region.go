package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// metadataTimeout bounds the IMDS lookup so the tool does not stall off EC2
const metadataTimeout = 2 * time.Second

// MetadataAPI defines the instance metadata operations used for region detection
type MetadataAPI interface {
	GetRegion(ctx context.Context, params *imds.GetRegionInput, optFns ...func(*imds.Options)) (*imds.GetRegionOutput, error)
}

// NewMetadataClient creates an IMDS client with default options
func NewMetadataClient() MetadataAPI {
	return imds.New(imds.Options{})
}

// DetectRegion asks the instance metadata service which region this host runs in
func DetectRegion(ctx context.Context, client MetadataAPI) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	out, err := client.GetRegion(ctx, &imds.GetRegionInput{})
	if err != nil {
		return "", fmt.Errorf("error reading region from instance metadata: %w", err)
	}
	if out.Region == "" {
		return "", fmt.Errorf("instance metadata returned an empty region")
	}
	return out.Region, nil
}

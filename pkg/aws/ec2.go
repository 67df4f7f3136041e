package aws

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/younsl/ec2tags/internal/models"
	"github.com/younsl/ec2tags/pkg/utils"
)

// Error codes EC2 returns when an instance is in a state that rejects the command
var stateConflictCodes = map[string]bool{
	"IncorrectInstanceState": true,
	"IncorrectState":         true,
}

// EC2API defines the EC2 operations used by the client
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// NewEC2Client creates a new EC2Client for the region, optionally using a shared config profile
func NewEC2Client(ctx context.Context, region, profile string) (*EC2Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewEC2ClientFromAPI(ec2.NewFromConfig(cfg), region), nil
}

// NewEC2ClientFromAPI wraps an existing EC2 API implementation
func NewEC2ClientFromAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{
		client: api,
		region: region,
	}
}

// Region returns the region the client talks to
func (c *EC2Client) Region() string {
	return c.region
}

// Instances streams every instance in the region, page by page.
// The sequence stops after the first error.
func (c *EC2Client) Instances(ctx context.Context) iter.Seq2[models.Instance, error] {
	return func(yield func(models.Instance, error) bool) {
		paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				yield(models.Instance{}, fmt.Errorf("error querying EC2 instances: %w", err))
				return
			}

			for _, reservation := range page.Reservations {
				for _, instance := range reservation.Instances {
					if !yield(c.toInstance(instance), nil) {
						return
					}
				}
			}
		}
	}
}

// StopInstance requests a stop of the instance
func (c *EC2Client) StopInstance(ctx context.Context, id string) error {
	_, err := c.client.StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return classifyError("stopping", id, err)
	}
	return nil
}

// TerminateInstance requests termination of the instance
func (c *EC2Client) TerminateInstance(ctx context.Context, id string) error {
	_, err := c.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return classifyError("terminating", id, err)
	}
	return nil
}

func (c *EC2Client) toInstance(instance types.Instance) models.Instance {
	var state models.InstanceState
	if instance.State != nil {
		state = models.InstanceState(instance.State.Name)
	}

	return models.Instance{
		ID:           aws.ToString(instance.InstanceId),
		InstanceType: string(instance.InstanceType),
		State:        state,
		Tags:         utils.FromEC2Tags(instance.Tags),
		Region:       c.region,
		LaunchTime:   aws.ToTime(instance.LaunchTime),
	}
}

// classifyError turns state conflicts into StateConflictError and wraps everything else
func classifyError(verb, id string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && stateConflictCodes[apiErr.ErrorCode()] {
		return &models.StateConflictError{
			InstanceID: id,
			Message:    apiErr.ErrorMessage(),
		}
	}
	return fmt.Errorf("error %s instance %s: %w", verb, id, err)
}

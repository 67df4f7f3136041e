package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younsl/ec2tags/internal/models"
)

// mockEC2Client implements EC2API for testing.
type mockEC2Client struct {
	DescribeInstancesFunc  func(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StopInstancesFunc      func(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	TerminateInstancesFunc func(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

func (m *mockEC2Client) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if m.DescribeInstancesFunc != nil {
		return m.DescribeInstancesFunc(ctx, params, optFns...)
	}
	return &ec2.DescribeInstancesOutput{}, nil
}

func (m *mockEC2Client) StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	if m.StopInstancesFunc != nil {
		return m.StopInstancesFunc(ctx, params, optFns...)
	}
	return &ec2.StopInstancesOutput{}, nil
}

func (m *mockEC2Client) TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	if m.TerminateInstancesFunc != nil {
		return m.TerminateInstancesFunc(ctx, params, optFns...)
	}
	return &ec2.TerminateInstancesOutput{}, nil
}

func newTestInstance() types.Instance {
	return types.Instance{
		InstanceId:   aws.String("i-abc123"),
		InstanceType: types.InstanceTypeT2Micro,
		State:        &types.InstanceState{Name: types.InstanceStateNameRunning},
		LaunchTime:   aws.Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		Tags: []types.Tag{
			{Key: aws.String("Name"), Value: aws.String("test-instance")},
			{Key: aws.String("Env"), Value: aws.String("Production")},
		},
	}
}

func collect(t *testing.T, c *EC2Client) ([]models.Instance, error) {
	t.Helper()
	var out []models.Instance
	for inst, err := range c.Instances(context.Background()) {
		if err != nil {
			return out, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func TestInstances(t *testing.T) {
	mock := &mockEC2Client{
		DescribeInstancesFunc: func(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
			return &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{Instances: []types.Instance{newTestInstance()}}},
			}, nil
		},
	}

	c := NewEC2ClientFromAPI(mock, "eu-west-1")
	instances, err := collect(t, c)

	require.NoError(t, err)
	require.Len(t, instances, 1)

	inst := instances[0]
	assert.Equal(t, "i-abc123", inst.ID)
	assert.Equal(t, "t2.micro", inst.InstanceType)
	assert.Equal(t, models.StateRunning, inst.State)
	assert.Equal(t, "eu-west-1", inst.Region)
	assert.Equal(t, 2024, inst.LaunchTime.Year())
	assert.Equal(t, []models.Tag{
		{Key: "Name", Value: "test-instance"},
		{Key: "Env", Value: "Production"},
	}, inst.Tags)
}

func TestInstances_Empty(t *testing.T) {
	c := NewEC2ClientFromAPI(&mockEC2Client{}, "eu-west-1")
	instances, err := collect(t, c)

	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestInstances_NoStateNoTags(t *testing.T) {
	mock := &mockEC2Client{
		DescribeInstancesFunc: func(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
			return &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{Instances: []types.Instance{{InstanceId: aws.String("i-bare")}}}},
			}, nil
		},
	}

	instances, err := collect(t, NewEC2ClientFromAPI(mock, "eu-west-1"))
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, models.InstanceState(""), instances[0].State)
	assert.Nil(t, instances[0].Tags)
}

func TestInstances_Pagination(t *testing.T) {
	callCount := 0
	var tokens []*string
	mock := &mockEC2Client{
		DescribeInstancesFunc: func(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
			callCount++
			tokens = append(tokens, params.NextToken)
			if callCount == 1 {
				return &ec2.DescribeInstancesOutput{
					Reservations: []types.Reservation{{Instances: []types.Instance{{InstanceId: aws.String("i-1"), State: &types.InstanceState{Name: types.InstanceStateNameRunning}}}}},
					NextToken:    aws.String("token"),
				}, nil
			}
			return &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{Instances: []types.Instance{{InstanceId: aws.String("i-2"), State: &types.InstanceState{Name: types.InstanceStateNameStopped}}}}},
			}, nil
		},
	}

	instances, err := collect(t, NewEC2ClientFromAPI(mock, "eu-west-1"))

	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "i-1", instances[0].ID)
	assert.Equal(t, "i-2", instances[1].ID)
	assert.Equal(t, models.StateStopped, instances[1].State)
	assert.Equal(t, 2, callCount)
	assert.Nil(t, tokens[0])
	assert.Equal(t, "token", aws.ToString(tokens[1]))
}

func TestInstances_Error(t *testing.T) {
	mock := &mockEC2Client{
		DescribeInstancesFunc: func(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
			return nil, errors.New("auth failure")
		},
	}

	_, err := collect(t, NewEC2ClientFromAPI(mock, "eu-west-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth failure")
}

func TestInstances_EarlyBreak(t *testing.T) {
	calls := 0
	mock := &mockEC2Client{
		DescribeInstancesFunc: func(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
			calls++
			return &ec2.DescribeInstancesOutput{
				Reservations: []types.Reservation{{Instances: []types.Instance{{InstanceId: aws.String("i-1")}, {InstanceId: aws.String("i-2")}}}},
				NextToken:    aws.String("more"),
			}, nil
		},
	}

	c := NewEC2ClientFromAPI(mock, "eu-west-1")
	for range c.Instances(context.Background()) {
		break
	}
	assert.Equal(t, 1, calls)
}

func TestStopInstance(t *testing.T) {
	var got []string
	mock := &mockEC2Client{
		StopInstancesFunc: func(_ context.Context, params *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
			got = params.InstanceIds
			return &ec2.StopInstancesOutput{}, nil
		},
	}

	err := NewEC2ClientFromAPI(mock, "eu-west-1").StopInstance(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1"}, got)
}

func TestStopInstance_StateConflict(t *testing.T) {
	mock := &mockEC2Client{
		StopInstancesFunc: func(_ context.Context, _ *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
			return nil, &smithy.GenericAPIError{
				Code:    "IncorrectInstanceState",
				Message: "The instance 'i-1' is not in a state from which it can be stopped.",
			}
		},
	}

	err := NewEC2ClientFromAPI(mock, "eu-west-1").StopInstance(context.Background(), "i-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIncorrectInstanceState))

	var conflict *models.StateConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "i-1", conflict.InstanceID)
	assert.Contains(t, conflict.Message, "not in a state")
}

func TestStopInstance_OtherAPIError(t *testing.T) {
	mock := &mockEC2Client{
		StopInstancesFunc: func(_ context.Context, _ *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}
		},
	}

	err := NewEC2ClientFromAPI(mock, "eu-west-1").StopInstance(context.Background(), "i-1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrIncorrectInstanceState))
	assert.Contains(t, err.Error(), "error stopping instance i-1")
}

func TestTerminateInstance(t *testing.T) {
	var got []string
	mock := &mockEC2Client{
		TerminateInstancesFunc: func(_ context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
			got = params.InstanceIds
			return &ec2.TerminateInstancesOutput{}, nil
		},
	}

	err := NewEC2ClientFromAPI(mock, "eu-west-1").TerminateInstance(context.Background(), "i-9")
	require.NoError(t, err)
	assert.Equal(t, []string{"i-9"}, got)
}

func TestTerminateInstance_Error(t *testing.T) {
	mock := &mockEC2Client{
		TerminateInstancesFunc: func(_ context.Context, _ *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
			return nil, context.DeadlineExceeded
		},
	}

	err := NewEC2ClientFromAPI(mock, "eu-west-1").TerminateInstance(context.Background(), "i-9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

package orchestrator

import (
	"context"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

// fakeEC2 is an in-memory EC2 that applies stop and terminate transitions
// immediately, the way the moto mock does.
type fakeEC2 struct {
	mu        sync.Mutex
	instances []*fakeInstance
	pageSize  int
	stopCalls int
	termCalls int
}

type fakeInstance struct {
	id    string
	state types.InstanceStateName
	tags  map[string]string
}

func newFakeEC2() *fakeEC2 {
	return &fakeEC2{pageSize: 2}
}

func (f *fakeEC2) add(state types.InstanceStateName, tags map[string]string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "i-" + strconv.Itoa(len(f.instances)+1)
	f.instances = append(f.instances, &fakeInstance{id: id, state: state, tags: tags})
	return id
}

func (f *fakeEC2) state(id string) types.InstanceStateName {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inst := range f.instances {
		if inst.id == id {
			return inst.state
		}
	}
	return ""
}

func (f *fakeEC2) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := 0
	if params.NextToken != nil {
		start, _ = strconv.Atoi(*params.NextToken)
	}
	end := min(start+f.pageSize, len(f.instances))

	var out []types.Instance
	for _, inst := range f.instances[start:end] {
		var tags []types.Tag
		for k, v := range inst.tags {
			tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(v)})
		}
		out = append(out, types.Instance{
			InstanceId:   aws.String(inst.id),
			InstanceType: types.InstanceTypeT3Micro,
			State:        &types.InstanceState{Name: inst.state},
			Tags:         tags,
		})
	}

	result := &ec2.DescribeInstancesOutput{
		Reservations: []types.Reservation{{Instances: out}},
	}
	if end < len(f.instances) {
		result.NextToken = aws.String(strconv.Itoa(end))
	}
	return result, nil
}

func (f *fakeEC2) StopInstances(_ context.Context, params *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	for _, inst := range f.find(params.InstanceIds) {
		if inst.state == types.InstanceStateNamePending {
			return nil, &smithy.GenericAPIError{
				Code:    "IncorrectInstanceState",
				Message: "The instance '" + inst.id + "' is not in a state from which it can be stopped.",
			}
		}
		inst.state = types.InstanceStateNameStopped
	}
	return &ec2.StopInstancesOutput{}, nil
}

func (f *fakeEC2) TerminateInstances(_ context.Context, params *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.termCalls++
	for _, inst := range f.find(params.InstanceIds) {
		inst.state = types.InstanceStateNameTerminated
	}
	return &ec2.TerminateInstancesOutput{}, nil
}

func (f *fakeEC2) find(ids []string) []*fakeInstance {
	var found []*fakeInstance
	for _, inst := range f.instances {
		for _, id := range ids {
			if inst.id == id {
				found = append(found, inst)
			}
		}
	}
	return found
}

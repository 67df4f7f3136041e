package models

import "time"

// InstanceState is the lifecycle state name reported by EC2
type InstanceState string

// Known EC2 instance states. Any other value is treated as unknown.
const (
	StatePending      InstanceState = "pending"
	StateRunning      InstanceState = "running"
	StateStopping     InstanceState = "stopping"
	StateStopped      InstanceState = "stopped"
	StateShuttingDown InstanceState = "shutting-down"
	StateTerminated   InstanceState = "terminated"
)

// Tag is a key/value label attached to an instance
type Tag struct {
	Key   string
	Value string
}

// Instance represents an EC2 instance as read from the provider
type Instance struct {
	ID           string
	InstanceType string
	State        InstanceState
	Tags         []Tag
	Region       string
	LaunchTime   time.Time
}

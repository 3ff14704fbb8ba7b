package sinks

import "context"

// Sink delivers change events to a downstream destination (SQS, SNS,
// Pub/Sub, HTTP webhook).
type Sink interface {
	ID() string
	Type() string
	Send(ctx context.Context, evt Event) error
}

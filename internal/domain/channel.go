package domain

import "context"

// Messenger delivers a single outbound message to the chat platform.
type Messenger interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// UpdateSource receives inbound messages from the chat platform and publishes
// them to the bus until ctx is cancelled.
type UpdateSource interface {
	Name() string
	Start(ctx context.Context, bus MessageBus) error
}

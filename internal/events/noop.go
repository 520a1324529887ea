package events

import "context"

// NoopPublisher is a Publisher that does nothing (used when no event bus is
// configured, which is the normal case for the embedded app core).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

package mqtt

import "context"

// Publisher sends payloads to an MQTT broker.
type Publisher interface {
	// Publish delivers payload to topic using the publisher's configured QoS
	// and retain flag. It blocks until the broker acknowledges the message or
	// ctx is done.
	Publish(ctx context.Context, topic string, payload []byte) error
}

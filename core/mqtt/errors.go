package mqtt

import "errors"

var (
	// ErrNotConnected is returned when publishing without a broker connection.
	ErrNotConnected = errors.New("mqtt client not connected")
	// ErrConnectTimeout is returned when the broker does not accept the connection in time.
	ErrConnectTimeout = errors.New("timeout connecting to mqtt broker")
)

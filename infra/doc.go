// Package infra contains adapters for third-party systems: zerolog logging,
// Prometheus and InfluxDB metrics, MQTT announcements and snapshot storage.
// These packages depend only on the interfaces defined in the core packages.
package infra

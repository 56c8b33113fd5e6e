//go:build !kafka
// +build !kafka

package util

type PublisherConfig struct {
	Type                string     `toml:"type"`
	NatsPublisherConfig NatsConfig `toml:"nats"`
}

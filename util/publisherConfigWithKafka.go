//go:build kafka
// +build kafka

package util

import "github.com/confluentinc/confluent-kafka-go/kafka"

type PublisherConfig struct {
	Type                 string          `toml:"type"`
	NatsPublisherConfig  NatsConfig      `toml:"nats"`
	KafkaPublisherConfig kafka.ConfigMap `toml:"kafka"`
}

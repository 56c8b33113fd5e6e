package telemetry

const (
	KAFKA   = "kafka"
	NATS    = "nats"
	STREAM  = "stream"
	DISCARD = "discard"
)

type Publisher interface {
	connect() error
	isConnected() bool
	Publish(topic string, packet *Packet) error
	Close() error
}

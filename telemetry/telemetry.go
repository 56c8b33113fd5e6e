// Package telemetry ships structured messages to an external telemetry
// channel.
//
// A Message is rendered as a flat JSON object, wrapped in a {Key, Value}
// envelope (msgpack or cbor), optionally zstd compressed, and published by a
// Publisher from inside an actor so that callers never wait on the network.
package telemetry

import (
	"time"
)

type Fields map[string]interface{}

type Message struct {
	Msg       string
	Timestamp time.Time
	Fields    Fields
}

// Sender accepts messages without blocking on delivery.
type Sender interface {
	Send(msg Message)
}

// Packet is an encoded message. Value is the JSON payload and Frame the
// envelope sent on transports without native keys.
type Packet struct {
	Key   []byte
	Value []byte
	Frame []byte
}

package telemetry

import (
	"github.com/juju/errors"
	"io"
	"sync"
	"sync/atomic"
)

// StreamPublisher writes each payload as one line of JSON.
type StreamPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStreamPublisher(w io.Writer) *StreamPublisher {
	return &StreamPublisher{w: w}
}

func (sp *StreamPublisher) connect() error {
	return nil
}

func (sp *StreamPublisher) isConnected() bool {
	return true
}

func (sp *StreamPublisher) Publish(_ string, packet *Packet) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	line := make([]byte, 0, len(packet.Value)+1)
	line = append(append(line, packet.Value...), '\n')
	_, err := sp.w.Write(line)
	return errors.Trace(err)
}

func (sp *StreamPublisher) Close() error {
	return nil
}

// DiscardPublisher counts and drops packets.
type DiscardPublisher struct {
	count atomic.Uint64
}

func (dp *DiscardPublisher) connect() error {
	return nil
}

func (dp *DiscardPublisher) isConnected() bool {
	return true
}

func (dp *DiscardPublisher) Publish(string, *Packet) error {
	dp.count.Add(1)
	return nil
}

func (dp *DiscardPublisher) Count() uint64 {
	return dp.count.Load()
}

func (dp *DiscardPublisher) Close() error {
	return nil
}

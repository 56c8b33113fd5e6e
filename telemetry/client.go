package telemetry

import (
	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/eapache/queue"
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
	"sync/atomic"
)

const (
	defaultTopic       = "tracing"
	defaultNamespace   = "tracing"
	defaultMaxInflight = 1024
	defaultBacklog     = 256
)

// Client encodes messages on the caller's goroutine and publishes them from
// an actor. Messages beyond the in-flight limit are dropped.
type Client struct {
	encoder     *Encoder
	topic       string
	maxInflight int64
	inflight    atomic.Int64
	published   atomic.Uint64
	dropped     atomic.Uint64
	closed      atomic.Bool
	pid         *actor.PID
	done        chan struct{}
}

type shipper struct {
	client       *Client
	publisher    Publisher
	backlog      *queue.Queue
	backlogLimit int
}

func NewClientFromConfig(config util.TelemetryConfig) (*Client, error) {
	publisher, err := InitPublisherFromConfig(config.Publisher)
	if err != nil {
		return nil, errors.Annotate(err, "unable to initialise telemetry publisher")
	}
	client, err := NewClient(config, publisher)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}
	return client, nil
}

// NewClient starts a shipper publishing through publisher. The publisher is
// closed together with the client.
func NewClient(config util.TelemetryConfig, publisher Publisher) (*Client, error) {
	namespace := config.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}
	encoder, err := NewEncoder(namespace, config.Codec, config.Compression)
	if err != nil {
		return nil, err
	}
	c := &Client{
		encoder:     encoder,
		topic:       config.Topic,
		maxInflight: int64(config.MaxInflight),
		done:        make(chan struct{}),
	}
	if c.topic == "" {
		c.topic = defaultTopic
	}
	if c.maxInflight <= 0 {
		c.maxInflight = defaultMaxInflight
	}
	backlogLimit := config.Backlog
	if backlogLimit <= 0 {
		backlogLimit = defaultBacklog
	}
	s := &shipper{client: c, publisher: publisher, backlog: queue.New(), backlogLimit: backlogLimit}
	props := actor.FromProducer(func() actor.Actor {
		return s
	})
	c.pid = actor.Spawn(props)
	return c, nil
}

func (c *Client) Send(msg Message) {
	if c.closed.Load() {
		c.dropped.Add(1)
		return
	}
	if c.inflight.Add(1) > c.maxInflight {
		c.inflight.Add(-1)
		c.dropped.Add(1)
		return
	}
	packet, err := c.encoder.Encode(msg)
	if err != nil {
		logger := util.GetLogger("telemetry", "Client::Send")
		logger.Error("Unable to encode message", zap.String("msg", msg.Msg), zap.Error(err))
		c.inflight.Add(-1)
		c.dropped.Add(1)
		return
	}
	c.pid.Tell(packet)
}

func (c *Client) Published() uint64 {
	return c.published.Load()
}

func (c *Client) Dropped() uint64 {
	return c.dropped.Load()
}

// Close delivers what is already queued, retries the backlog once and closes
// the publisher. Messages sent afterwards are dropped.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.pid.Poison()
	<-c.done
	return nil
}

func (s *shipper) Receive(c actor.Context) {
	logger := util.GetLogger("telemetry", "shipper::Receive")
	switch msg := c.Message().(type) {
	case *Packet:
		s.ship(msg)
		s.client.inflight.Add(-1)
	case *actor.Started:
		logger.Debug("Actor started", zap.String("topic", s.client.topic))
	case *actor.Stopping:
		logger.Debug("Stopping, flushing backlog", zap.Int("backlog", s.backlog.Length()))
	case *actor.Stopped:
		s.flush()
		if remaining := s.backlog.Length(); remaining > 0 {
			logger.Warn("Dropping undelivered messages", zap.Int("count", remaining))
			s.client.dropped.Add(uint64(remaining))
		}
		if err := s.publisher.Close(); err != nil {
			logger.Error("Unable to close publisher", zap.Error(err))
		}
		close(s.client.done)
	}
}

func (s *shipper) ship(packet *Packet) {
	if !s.flush() {
		s.park(packet)
		return
	}
	if err := s.publisher.Publish(s.client.topic, packet); err != nil {
		logger := util.GetLogger("telemetry", "shipper::ship")
		logger.Warn("Publish failed, parking message", zap.ByteString("key", packet.Key), zap.Error(err))
		s.park(packet)
		return
	}
	s.client.published.Add(1)
}

// flush publishes parked packets oldest first and reports whether the
// backlog is empty afterwards.
func (s *shipper) flush() bool {
	for s.backlog.Length() > 0 {
		packet := s.backlog.Peek().(*Packet)
		if err := s.publisher.Publish(s.client.topic, packet); err != nil {
			return false
		}
		s.backlog.Remove()
		s.client.published.Add(1)
	}
	return true
}

func (s *shipper) park(packet *Packet) {
	if s.backlog.Length() >= s.backlogLimit {
		s.backlog.Remove()
		s.client.dropped.Add(1)
	}
	s.backlog.Add(packet)
}

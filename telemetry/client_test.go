package telemetry

import (
	"bufio"
	"bytes"
	"github.com/json-iterator/go"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type flakyPublisher struct {
	mu      sync.Mutex
	failing atomic.Bool
	keys    []string
	closed  bool
}

func (fp *flakyPublisher) connect() error {
	return nil
}

func (fp *flakyPublisher) isConnected() bool {
	return true
}

func (fp *flakyPublisher) Publish(_ string, packet *Packet) error {
	if fp.failing.Load() {
		return errors.New("broker unavailable")
	}
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.keys = append(fp.keys, string(packet.Key))
	return nil
}

func (fp *flakyPublisher) Close() error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.closed = true
	return nil
}

func (fp *flakyPublisher) published() []string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return append([]string(nil), fp.keys...)
}

func expectedKeys(from, to int) []string {
	keys := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		keys = append(keys, "test_tracing.span_"+strconv.Itoa(i))
	}
	return keys
}

func TestClientPublishesInOrder(t *testing.T) {
	var out bytes.Buffer
	client, err := NewClient(util.TelemetryConfig{Namespace: "test"}, NewStreamPublisher(&out))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		client.Send(Message{Msg: "tracing.span", Fields: Fields{"id": i}})
	}
	require.NoError(t, client.Close())

	assert.Equal(t, uint64(10), client.Published())
	assert.Equal(t, uint64(0), client.Dropped())
	scanner := bufio.NewScanner(&out)
	i := 0
	for scanner.Scan() {
		assert.Equal(t, i, jsoniter.Get(scanner.Bytes(), "id").ToInt())
		assert.Equal(t, "tracing.span", jsoniter.Get(scanner.Bytes(), "msg").ToString())
		i++
	}
	assert.Equal(t, 10, i)
}

func TestClientRetriesBacklog(t *testing.T) {
	publisher := &flakyPublisher{}
	publisher.failing.Store(true)
	client, err := NewClient(util.TelemetryConfig{Namespace: "test", Backlog: 3}, publisher)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		client.Send(Message{Msg: "tracing.span"})
	}
	assert.Eventually(t, func() bool {
		return client.Dropped() == 5
	}, time.Second, 5*time.Millisecond)

	publisher.failing.Store(false)
	client.Send(Message{Msg: "tracing.span"})
	require.NoError(t, client.Close())

	assert.Equal(t, expectedKeys(6, 9), publisher.published())
	assert.Equal(t, uint64(4), client.Published())
	assert.Equal(t, uint64(5), client.Dropped())
	assert.True(t, publisher.closed)
}

func TestClientDropsBacklogAtClose(t *testing.T) {
	publisher := &flakyPublisher{}
	publisher.failing.Store(true)
	client, err := NewClient(util.TelemetryConfig{Namespace: "test", Backlog: 4}, publisher)
	require.NoError(t, err)
	client.Send(Message{Msg: "tracing.span"})
	client.Send(Message{Msg: "tracing.span"})
	require.NoError(t, client.Close())

	assert.Empty(t, publisher.published())
	assert.Equal(t, uint64(2), client.Dropped())
}

func TestClientSendAfterClose(t *testing.T) {
	publisher := &DiscardPublisher{}
	client, err := NewClient(util.TelemetryConfig{}, publisher)
	require.NoError(t, err)
	client.Send(Message{Msg: "tracing.event"})
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
	client.Send(Message{Msg: "tracing.event"})

	assert.Equal(t, uint64(1), publisher.Count())
	assert.Equal(t, uint64(1), client.Published())
	assert.Equal(t, uint64(1), client.Dropped())
}

func TestNewClientRejectsUnknownCodec(t *testing.T) {
	_, err := NewClient(util.TelemetryConfig{Codec: "xml"}, &DiscardPublisher{})
	assert.True(t, errors.IsNotSupported(err))
}

func TestInitPublisherFromConfig(t *testing.T) {
	publisher, err := InitPublisherFromConfig(util.PublisherConfig{Type: DISCARD})
	require.NoError(t, err)
	assert.IsType(t, &DiscardPublisher{}, publisher)

	publisher, err = InitPublisherFromConfig(util.PublisherConfig{})
	require.NoError(t, err)
	assert.IsType(t, &StreamPublisher{}, publisher)

	_, err = InitPublisherFromConfig(util.PublisherConfig{Type: "carrier-pigeon"})
	assert.True(t, errors.IsNotSupported(err))
}

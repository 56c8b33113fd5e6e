//go:build kafka
// +build kafka

package telemetry

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
)

const kafkaFlushTimeoutMs = 5000

type KafkaPublisher struct {
	ConfigMap kafka.ConfigMap
	producer  *kafka.Producer
	connected bool
	done      chan struct{}
}

func (k *KafkaPublisher) connect() error {
	logger := util.GetLogger("telemetry", "KafkaPublisher::connect")
	var err error
	logger.Info("Connecting to kafka broker")
	k.producer, err = kafka.NewProducer(&k.ConfigMap)
	if err != nil {
		k.connected = false
		logger.Error("Unable to connect to kafka broker", zap.Error(err))
		return errors.Annotate(err, "unable to create kafka producer")
	}
	k.connected = true
	k.done = make(chan struct{})
	go k.deliveryReports()
	return nil
}

func (k *KafkaPublisher) isConnected() bool {
	return k.connected
}

// deliveryReports drains the producer's event channel, which would
// otherwise fill up and stall Produce.
func (k *KafkaPublisher) deliveryReports() {
	logger := util.GetLogger("telemetry", "KafkaPublisher::deliveryReports")
	defer close(k.done)
	for ev := range k.producer.Events() {
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				logger.Warn("Delivery failed", zap.ByteString("key", e.Key), zap.Error(e.TopicPartition.Error))
			}
		case kafka.Error:
			logger.Error("Error event received from producer", zap.Error(e))
		}
	}
}

func (k *KafkaPublisher) Publish(topic string, packet *Packet) error {
	if !k.connected {
		return errors.New("kafka producer not connected")
	}
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            packet.Key,
		Value:          packet.Frame,
	}, nil)
}

func (k *KafkaPublisher) Close() error {
	if !k.connected {
		return nil
	}
	if remaining := k.producer.Flush(kafkaFlushTimeoutMs); remaining > 0 {
		logger := util.GetLogger("telemetry", "KafkaPublisher::Close")
		logger.Warn("Messages still queued at close", zap.Int("remaining", remaining))
	}
	k.producer.Close()
	<-k.done
	k.connected = false
	return nil
}

//go:build kafka
// +build kafka

package telemetry

import (
	"github.com/thapovan-inc/orion-trace-correlator/util"
)

func InitPublisherFromConfig(config util.PublisherConfig) (Publisher, error) {
	if config.Type == KAFKA {
		publisher := &KafkaPublisher{ConfigMap: config.KafkaPublisherConfig}
		if err := publisher.connect(); err != nil {
			return nil, err
		}
		return publisher, nil
	}
	return initCommonPublisher(config)
}

//go:build !kafka
// +build !kafka

package telemetry

import (
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/util"
)

func InitPublisherFromConfig(config util.PublisherConfig) (Publisher, error) {
	if config.Type == KAFKA {
		return nil, errors.NotSupportedf("kafka publisher in a build without the kafka tag")
	}
	return initCommonPublisher(config)
}

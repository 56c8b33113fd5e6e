package telemetry

import (
	"github.com/juju/errors"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
	"os"
)

func initCommonPublisher(config util.PublisherConfig) (Publisher, error) {
	logger := util.GetLogger("telemetry", "InitPublisherFromConfig")
	switch config.Type {
	case NATS:
		natsConfig := config.NatsPublisherConfig
		publisher := &NatsPublisher{URL: natsConfig.URL, ClientID: natsConfig.ClientID, ClusterID: natsConfig.ClusterID}
		if err := publisher.connect(); err != nil {
			logger.Debug("Error when connecting", zap.Error(err))
			return nil, err
		}
		return publisher, nil
	case "", STREAM:
		return NewStreamPublisher(os.Stdout), nil
	case DISCARD:
		return &DiscardPublisher{}, nil
	default:
		return nil, errors.NotSupportedf("telemetry publisher %q", config.Type)
	}
}

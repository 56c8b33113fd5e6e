package telemetry

import (
	"github.com/juju/errors"
	"github.com/nats-io/go-nats-streaming"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
)

// NatsPublisher publishes envelope frames to a NATS streaming cluster, one
// subject per topic.
type NatsPublisher struct {
	URL       string
	ClusterID string
	ClientID  string
	nc        stan.Conn
}

func (np *NatsPublisher) connect() error {
	logger := util.GetLogger("telemetry", "NatsPublisher::connect")
	var err error
	if np.isConnected() {
		logger.Warn("Attempting to connect to nats server when already connected")
		return nil
	}
	logger.Info("Connecting")
	if np.URL == "" {
		logger.Warn("nats URL not provided. Using default URL ", zap.String("defaultURL", stan.DefaultNatsURL))
		np.URL = stan.DefaultNatsURL
	}
	np.nc, err = stan.Connect(np.ClusterID, np.ClientID, stan.NatsURL(np.URL),
		stan.SetConnectionLostHandler(func(_ stan.Conn, reason error) {
			logger.Error("Connection lost", zap.Error(reason))
		}))
	if err != nil {
		logger.Error("Error when trying to connect to nats server", zap.String("url", np.URL), zap.Error(err))
		return errors.Annotatef(err, "unable to connect to nats at %s", np.URL)
	}
	return nil
}

func (np *NatsPublisher) isConnected() bool {
	return np.nc != nil && np.nc.NatsConn() != nil && np.nc.NatsConn().IsConnected()
}

// Publish reconnects once if the connection was lost.
func (np *NatsPublisher) Publish(topic string, packet *Packet) error {
	if !np.isConnected() {
		if err := np.connect(); err != nil {
			return err
		}
	}
	return errors.Trace(np.nc.Publish(topic, packet.Frame))
}

func (np *NatsPublisher) Close() error {
	if np.nc == nil {
		return nil
	}
	err := np.nc.Close()
	if err != nil {
		logger := util.GetLogger("telemetry", "NatsPublisher::Close")
		logger.Error("Unable to close nats connection", zap.Error(err))
	}
	return err
}

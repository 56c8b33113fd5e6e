package util

import (
	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"os"
	"reflect"
	"sync/atomic"
	"time"
)

type CorrelatorConfig struct {
	Logger     zap.Config       `toml:"log"`
	General    GeneralConfig    `toml:"general"`
	BookKeeper BookKeeperConfig `toml:"book_keeper"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
	Otel       OtelConfig       `toml:"otel"`
}

type GeneralConfig struct {
	// Receiver is one of "log", "telemetry" or "otel".
	Receiver string `toml:"receiver"`
	Targets  string `toml:"targets"`
}

type BookKeeperConfig struct {
	Type       string        `toml:"type"`
	LifeWindow time.Duration `toml:"life_window"`
}

type TelemetryConfig struct {
	Namespace   string          `toml:"namespace"`
	Topic       string          `toml:"topic"`
	Codec       string          `toml:"codec"`
	Compression string          `toml:"compression"`
	MaxInflight int             `toml:"max_inflight"`
	Backlog     int             `toml:"backlog"`
	Publisher   PublisherConfig `toml:"publisher"`
}

type NatsConfig struct {
	URL       string `toml:"url"`
	ClientID  string `toml:"client_id"`
	ClusterID string `toml:"cluster_id"`
}

type OtelConfig struct {
	TracerName string `toml:"tracer_name"`
	// Endpoint is the OTLP/HTTP collector address; empty uses the exporter
	// default.
	Endpoint string `toml:"endpoint"`
	Insecure bool   `toml:"insecure"`
}

var loadedConfig atomic.Pointer[CorrelatorConfig]

// GetConfig returns the loaded configuration. It panics when nothing has
// been loaded.
func GetConfig() CorrelatorConfig {
	config := loadedConfig.Load()
	if config == nil {
		panic("config data not loaded")
	}
	return *config
}

func ParseConfig(tomlData string) (CorrelatorConfig, error) {
	config := CorrelatorConfig{}
	_, err := toml.Decode(tomlData, &config)
	if err != nil {
		return config, errors.Annotate(err, "error when parsing toml data")
	}
	if reflect.DeepEqual(CorrelatorConfig{}, config) {
		return config, errors.NotValidf("empty config data")
	}
	return config, nil
}

func LoadConfig(tomlData string) error {
	config, err := ParseConfig(tomlData)
	if err != nil {
		return err
	}
	loadedConfig.Store(&config)
	return nil
}

func LoadConfigFromFile(fileName string) error {
	tomlData, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Annotatef(err, "unable to read config file %s", fileName)
	}
	return LoadConfig(string(tomlData))
}

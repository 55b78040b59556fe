package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"

	"github.com/robotalks/carsim/pkg/l1"
	"github.com/robotalks/carsim/pkg/l1/comm"
	"github.com/robotalks/carsim/pkg/l1/comm/mqtt"
	"github.com/robotalks/carsim/pkg/l1/comm/websocket"
	"github.com/robotalks/carsim/pkg/l1/env"
	"github.com/robotalks/carsim/pkg/l1/env/controller"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref l1.Ref

	// RegistryURL specifies where endpoints are found:
	//   mqtt://host:port/topic-prefix  registry on an MQTT broker
	//   ws://host:port/ws              a single simulator, Ref is ignored
	RegistryURL string
}

var defaultConfig = Config{
	Ref:         l1.Ref{Kind: "car"},
	RegistryURL: controller.DefaultMQTTBrokerURL,
}

func init() {
	env.LoadDotEnv()
	defaultConfig.Ref.Kind = env.Getenv("CARSIM_KIND", defaultConfig.Ref.Kind)
	defaultConfig.Ref.ID = env.Getenv("CARSIM_ID", defaultConfig.Ref.ID)
	defaultConfig.RegistryURL = env.Getenv("CARSIM_REGISTRY_URL", env.Getenv("CARSIM_MQTT_URL", defaultConfig.RegistryURL))
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Kind, "target-kind", defaultConfig.Ref.Kind, "Kind of the endpoint to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "target-id", defaultConfig.Ref.ID, "ID of the endpoint to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "registry", defaultConfig.RegistryURL, "Registry URL (mqtt:// or ws://).")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (l1.Connector, error) {
	parsedURL, err := url.Parse(c.RegistryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid registry URL: %w", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "tcp", "ssl":
		return mqtt.NewConnector(c.RegistryURL)
	case "ws", "wss":
		return &wsConnector{url: c.RegistryURL}, nil
	default:
		return nil, fmt.Errorf("unknown registry URL scheme: %q", parsedURL.Scheme)
	}
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() l1.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect directly connects to the configured endpoint.
func (c *Config) Connect(ctx context.Context) (l1.Conn, error) {
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	if _, ok := connector.(*wsConnector); !ok && !c.Ref.IsValid() {
		return nil, fmt.Errorf("target kind and id must be specified")
	}
	return connector.Connect(ctx, c.Ref)
}

// MustConnect connects to the configured endpoint or fails.
func (c *Config) MustConnect() l1.Conn {
	conn, err := c.Connect(context.Background())
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// wsConnector reaches a single simulator serving websocket directly.
type wsConnector struct {
	url string
}

func (c *wsConnector) Discover(ctx context.Context) ([]l1.Info, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, err
	}
	return []l1.Info{{
		Ref:  l1.Ref{Kind: "car", ID: u.Host},
		Meta: l1.Meta{Description: "websocket " + c.url},
	}}, nil
}

func (c *wsConnector) Connect(ctx context.Context, ref l1.Ref) (l1.Conn, error) {
	conn, err := websocket.Dial(c.url)
	if err != nil {
		return nil, err
	}
	return comm.NewConn(conn), nil
}

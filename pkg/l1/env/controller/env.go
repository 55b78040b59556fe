package controller

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/golang/glog"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1"
	"github.com/robotalks/carsim/pkg/l1/comm"
	"github.com/robotalks/carsim/pkg/l1/comm/mqtt"
	"github.com/robotalks/carsim/pkg/l1/comm/websocket"
	"github.com/robotalks/carsim/pkg/l1/env"
)

// DefaultMQTTBrokerURL is used when CARSIM_MQTT_URL is not set.
const DefaultMQTTBrokerURL = "mqtt://localhost:1883/carsim/"

// Config provides common options to register an endpoint.
type Config struct {
	Info l1.Info

	// MQTTBrokerURL specifies the MQTT broker to use, empty to disable.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebsocketAddr is the listen address of the websocket server,
	// empty to disable.
	WebsocketAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: DefaultMQTTBrokerURL,
}

func init() {
	env.LoadDotEnv()
	defaultConfig.MQTTBrokerURL = env.Getenv("CARSIM_MQTT_URL", defaultConfig.MQTTBrokerURL)
	defaultConfig.WebsocketAddr = env.Getenv("CARSIM_WS_ADDR", defaultConfig.WebsocketAddr)
	defaultConfig.Info.Ref.ID = env.Getenv("CARSIM_ID", env.MachineID())
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Kind, "kind", defaultConfig.Info.Ref.Kind, "Endpoint kind")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Endpoint ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address, e.g. :8080")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetEndpointKind should be called in init with basic info about the endpoint.
func SetEndpointKind(kind string, meta l1.Meta) {
	defaultConfig.Info.Ref.Kind = kind
	defaultConfig.Info.Meta = meta
}

// Env is the env for a registered endpoint.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
	Websocket    *websocket.Server
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("endpoint kind and id must be specified")
	}
	e := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar: %w", err)
		}
		e.Registrar.Add(reg)
		e.RegistryURLs = append(e.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.WebsocketAddr != "" {
		e.Websocket = websocket.NewServer(c.WebsocketAddr)
		e.Registrar.Add(e.Websocket)
	}
	if len(e.Registrar.Registrars) == 0 {
		glog.Warningf("%s is not reachable: no registrar configured", c.Info.Ref.Name())
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// SendEvent implements l1.Registrar.
func (e *Env) SendEvent(ctx context.Context, msg fx.Message) error {
	return e.Registrar.SendEvent(ctx, msg)
}

// AddToLoop adds registrars and the unsupported command replier.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
}

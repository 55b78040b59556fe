package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"reflect"
	"strings"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1/comm"
	"github.com/robotalks/carsim/pkg/l1/comm/mqtt"
	"github.com/robotalks/carsim/pkg/l1/comm/websocket"
	"github.com/robotalks/carsim/pkg/l1/env"
	"github.com/robotalks/carsim/pkg/l1/env/controller"
	"github.com/robotalks/carsim/pkg/l1/msgs"

	_ "github.com/robotalks/carsim/pkg/joystick/msgs"
)

var (
	monitorURL = controller.DefaultMQTTBrokerURL
)

func init() {
	env.LoadDotEnv()
	monitorURL = env.Getenv("CARSIM_MQTT_URL", monitorURL)
	flag.StringVar(&monitorURL, "url", monitorURL, "MQTT broker URL, or ws:// URL of a simulator")
}

func describe(msg fx.Message) string {
	return "[" + reflect.Indirect(reflect.ValueOf(msg)).Type().Name() + "] " +
		msg.(msgs.SerializableMessage).Serializable().String()
}

func monitorMQTT(brokerURL string) {
	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/meta") {
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		log.Printf("%s: %s", topic, describe(msg))
	}))
	<-(chan struct{})(nil)
}

func monitorWebsocket(wsURL string) {
	rw, err := websocket.Dial(wsURL)
	if err != nil {
		log.Fatalln(err)
	}
	pipe := comm.NewPipe(rw)
	pipe.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
		log.Printf("%s: %s", wsURL, describe(msg))
		return nil
	})
	if err := fx.NewRunner().HandleSignals().Go(pipe).Wait(); err != nil {
		log.Fatalln(err)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	u, err := url.Parse(monitorURL)
	if err != nil {
		log.Fatalln(err)
	}
	switch u.Scheme {
	case "ws", "wss":
		monitorWebsocket(monitorURL)
	default:
		monitorMQTT(monitorURL)
	}
}

package mqtt

import (
	"context"
	"encoding/json"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/l1"
	"github.com/robotalks/carsim/pkg/l1/comm"
)

// Registrar implements l1.Registrar using MQTT. The endpoint's Meta is
// published retained on kind/id/meta while connected and cleared by the
// will message when the connection drops.
type Registrar struct {
	Queue *Queue
	Info  l1.Info

	meta      []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.Info) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := info.Ref.Name() + "/" + TopicMeta
	opts.SetBinaryWill(topicPrefix+metaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("carsim:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue: NewQueue(opts, topicPrefix),
		Info:  info,
		meta:  meta,
	}
	r.Queue.OnConnect = func(q *Queue) { q.PubWith(metaTopic, r.meta, 1, true) }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForRegistrar(info.Ref))
	return r, nil
}

// SendEvent implements l1.Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	if !r.Queue.Client.IsConnectionOpen() {
		// events are snapshots, the next one supersedes.
		return nil
	}
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	token := r.Queue.PubWith(r.Info.Ref.Name()+"/"+TopicMeta, nil, 1, true)
	token.Wait()
	r.Queue.Close()
	return nil
}

// Package see is the adapter to visualize a 2D world in
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"sort"

	"github.com/golang/glog"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim"
)

// Adapter is the visualization adapter to visualize using
// github.com/robotalks/see. Each frame with changes is written as a
// JSON array of Messages on its own line.
type Adapter struct {
	Config *Config
	Mapper ObjectMapper

	initial    bool
	updated    map[string]sim.Object
	removedIDs map[string]bool
}

// NewAdapter creates the adapter.
func NewAdapter(config *Config) *Adapter {
	return &Adapter{
		Config:  config,
		Mapper:  CarMapper,
		initial: true,
	}
}

// Subscribe is a helper to subscribe object changes.
func (a *Adapter) Subscribe(sub sim.ObjectsChangeSubscriber) *Adapter {
	sub.SubscribeObjectsChange(a)
	return a
}

// ObjectsChanged implements ObjectsChangeListener.
func (a *Adapter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	if a.updated == nil {
		a.updated = make(map[string]sim.Object)
	}
	for _, obj := range objs {
		a.updated[obj.Name()] = obj
		delete(a.removedIDs, obj.Name())
	}
}

// ObjectsRemoved implements ObjectsChangeListener.
func (a *Adapter) ObjectsRemoved(cc fx.ControlContext, objs ...sim.Object) {
	if a.removedIDs == nil {
		a.removedIDs = make(map[string]bool)
	}
	for _, obj := range objs {
		a.removedIDs[obj.Name()] = true
		delete(a.updated, obj.Name())
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvIdle, fx.ControlFunc(a.ReportChanges))
}

func (a *Adapter) corners() []Message {
	w, h := a.Config.W/2, a.Config.H/2
	corner := func(loc string, x, y float64) Message {
		return Message{Action: ActionObject, Object: NewObject(TypeCorner, "corner-"+loc).With("loc", loc).At(x, y).Radius(1)}
	}
	return []Message{
		{Action: ActionReset},
		corner("lt", -w, -h),
		corner("lb", -w, h),
		corner("rt", w, -h),
		corner("rb", w, h),
	}
}

// Collect returns the messages of pending changes and clears them.
func (a *Adapter) Collect() []Message {
	var msgs []Message
	if a.initial {
		msgs = a.corners()
		a.initial = false
		a.removedIDs = nil
	}

	names := make([]string, 0, len(a.updated))
	for name := range a.updated {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vo, ok := a.updated[name].(VisibleObject)
		if !ok || a.Mapper == nil {
			continue
		}
		for _, mapped := range a.Mapper.MapObject(vo) {
			if mapped != nil {
				msgs = append(msgs, Message{Action: ActionObject, Object: mapped})
			}
		}
	}

	ids := make([]string, 0, len(a.removedIDs))
	for name := range a.removedIDs {
		ids = append(ids, ObjectID(name))
	}
	sort.Strings(ids)
	for _, id := range ids {
		msgs = append(msgs, Message{Action: ActionRemove, RemoveID: id})
	}

	a.updated, a.removedIDs = nil, nil
	return msgs
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	msgs := a.Collect()
	if len(msgs) == 0 {
		return nil
	}
	if err := json.NewEncoder(a.Config.output()).Encode(msgs); err != nil {
		glog.Warningf("see: %v", err)
	}
	return nil
}

package sim

import (
	fx "github.com/robotalks/carsim/pkg/framework"
)

// ObjectsChangeCaster provides a subscriber and implements
// listener to fan out notifications, e.g. a car publishing its
// pose to both the see adapter and the websocket stream.
type ObjectsChangeCaster struct {
	listeners []ObjectsChangeListener
}

// SubscribeObjectsChange implements ObjectsChangeSubscriber.
func (c *ObjectsChangeCaster) SubscribeObjectsChange(ln ObjectsChangeListener) {
	c.listeners = append(c.listeners, ln)
}

// ObjectsChanged implements ObjectsChangeListener.
func (c *ObjectsChangeCaster) ObjectsChanged(cc fx.ControlContext, objs ...Object) {
	for _, ln := range c.listeners {
		ln.ObjectsChanged(cc, objs...)
	}
}

// ObjectsRemoved implements ObjectsChangeListener.
func (c *ObjectsChangeCaster) ObjectsRemoved(cc fx.ControlContext, objs ...Object) {
	for _, ln := range c.listeners {
		ln.ObjectsRemoved(cc, objs...)
	}
}

// HasListeners indicates whether any listener subscribed.
func (c *ObjectsChangeCaster) HasListeners() bool {
	return len(c.listeners) > 0
}

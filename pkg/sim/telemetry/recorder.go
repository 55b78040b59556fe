// Package telemetry records vehicle snapshots and exports them as CSV
// tables or PNG charts.
package telemetry

import (
	"sync"

	fx "github.com/robotalks/carsim/pkg/framework"
	"github.com/robotalks/carsim/pkg/sim/physics/vehicle"
)

// SnapshotSource provides the latest snapshot of a vehicle.
type SnapshotSource interface {
	Snapshot() vehicle.Snapshot
}

// Recorder collects snapshots. Frames which didn't advance the
// simulation are not recorded twice.
type Recorder struct {
	// Source is sampled once per frame when the Recorder is added to a loop.
	Source SnapshotSource
	// Limit caps the number of samples kept, oldest dropped first.
	// 0 means unlimited.
	Limit int

	lock    sync.RWMutex
	samples []vehicle.Snapshot
}

// NewRecorder creates a Recorder sampling src.
func NewRecorder(src SnapshotSource) *Recorder {
	return &Recorder{Source: src}
}

// Record appends a snapshot.
func (r *Recorder) Record(s vehicle.Snapshot) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if n := len(r.samples); n > 0 && r.samples[n-1].Time >= s.Time {
		if r.samples[n-1].Time == s.Time {
			r.samples[n-1] = s
			return
		}
		// time went backwards, the vehicle was reset.
		r.samples = r.samples[:0]
	}
	r.samples = append(r.samples, s)
	if r.Limit > 0 && len(r.samples) > r.Limit {
		r.samples = append(r.samples[:0], r.samples[len(r.samples)-r.Limit:]...)
	}
}

// Samples returns a copy of recorded snapshots.
func (r *Recorder) Samples() []vehicle.Snapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return append([]vehicle.Snapshot(nil), r.samples...)
}

// Len is the number of recorded snapshots.
func (r *Recorder) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.samples)
}

// Clear drops all samples.
func (r *Recorder) Clear() {
	r.lock.Lock()
	r.samples = nil
	r.lock.Unlock()
}

// Control implements Controller.
func (r *Recorder) Control(fx.ControlContext) error {
	if r.Source != nil {
		r.Record(r.Source.Snapshot())
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (r *Recorder) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, r)
}

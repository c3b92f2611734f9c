package watcher

import (
	"context"

	"github.com/sirupsen/logrus"
)

// State is the scheduler lifecycle state.
type State int

// Scheduler states. ShutDown is terminal.
const (
	StateStopped State = iota
	StateRunning
	StateShutDown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateShutDown:
		return "shut down"
	default:
		return "unknown"
	}
}

// Start begins polling. The first cycle runs immediately; each following one
// starts an interval after the previous one finished, so cycles never overlap
// and a slow cycle delays the next instead of being dropped.
//
// Starting a running watcher restarts its schedule and keeps the snapshot.
// Starting after Stop is a cold start: the next cycle re-establishes the
// baseline. Starting after Shutdown fails with ErrShutDown.
func (w *Watcher) Start() (*Watcher, error) {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	switch w.state {
	case StateShutDown:
		return w, ErrShutDown
	case StateRunning:
		close(w.stopCh)
	case StateStopped:
	}

	previous := w.loopDone
	w.stopCh = make(chan struct{})
	w.loopDone = make(chan struct{})
	w.state = StateRunning

	go w.run(previous, w.stopCh, w.loopDone)

	w.log.WithField("interval", w.interval).Debug("watcher started")

	return w, nil
}

// Stop halts polling and clears the snapshot. A cycle already in progress
// runs to completion but its result is discarded. Stop is safe to call from
// a sink.
func (w *Watcher) Stop() *Watcher {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	if w.state == StateRunning {
		close(w.stopCh)
		w.state = StateStopped
		w.log.Debug("watcher stopped")
	}

	w.clearState()

	return w
}

// Shutdown stops the watcher for good and waits for the background goroutine
// to exit or ctx to end. Calling it from a sink returns only when ctx ends.
func (w *Watcher) Shutdown(ctx context.Context) error {
	w.lifeMu.Lock()

	if w.state == StateRunning {
		close(w.stopCh)
	}

	w.state = StateShutDown
	w.clearState()
	done := w.loopDone

	w.lifeMu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	return w.State() == StateRunning
}

// State returns the lifecycle state.
func (w *Watcher) State() State {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	return w.state
}

// Poll runs one cycle on the calling goroutine, serialized with the
// background loop. It works whether or not the watcher is running.
func (w *Watcher) Poll() error {
	if w.State() == StateShutDown {
		return ErrShutDown
	}

	w.cycle(nil)

	return nil
}

// run is the background loop for one Start. It waits for the loop of the
// previous Start to exit first, so at most one loop is ever live.
func (w *Watcher) run(previous <-chan struct{}, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if previous != nil {
		<-previous
	}

	for {
		if stopped(stopCh) {
			return
		}

		w.cycle(stopCh)

		timer := w.timeProvider.NewTimer(w.interval)

		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C():
		}
	}
}

// clearState drops the snapshot and baselines. If a cycle holds them right
// now, that cycle discards its result and the next one starts cold.
// lifeMu must be held.
func (w *Watcher) clearState() {
	w.epoch.Add(1)
	w.resetPending.Store(true)

	if w.cycleMu.TryLock() {
		w.resetLocked()
		w.cycleMu.Unlock()
	}
}

// resetLocked empties the cycle state; cycleMu must be held.
func (w *Watcher) resetLocked() {
	w.differ.Reset()
	w.scanned = false
	w.baselined = nil
	w.stats.records.Store(0)
	w.resetPending.Store(false)
}

// cycle is one scan, diff, dispatch and commit. A loop cycle whose stopCh
// closed while it waited for the lock does nothing.
func (w *Watcher) cycle(stopCh <-chan struct{}) {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	if stopped(stopCh) {
		return
	}

	if w.resetPending.Load() {
		w.resetLocked()
	}

	epoch := w.epoch.Load()
	n := w.stats.cycles.Add(1)
	start := w.timeProvider.Now()
	log := w.log.WithField("cycle", n)

	w.emit(CycleStarted{Cycle: n})

	roots, regs := w.registry.Snapshot()

	if dropped := w.differ.Retain(func(path string) bool { return withinAny(roots, path) }); dropped > 0 {
		log.WithField("records", dropped).Debug("dropped records of unwatched roots")
	}

	fresh := make([]FileRecord, 0, w.differ.Len())

	for _, root := range roots {
		records, err := w.scanner.Scan(root)
		if err != nil {
			log.WithField("root", root).WithError(err).Warn("root could not be scanned")
		}

		w.emit(RootScanned{Root: root, Count: len(records), Err: err})
		fresh = append(fresh, records...)
	}

	result := w.differ.Diff(fresh)

	dispatch := result
	baseline := 0

	if !w.initialNotify {
		dispatch.Created, baseline = w.withoutBaseline(result.Created)
	}

	w.dispatcher.Dispatch(dispatch, regs)

	if w.epoch.Load() != epoch {
		// Stopped while this cycle ran.
		w.resetLocked()
		return
	}

	w.differ.Commit(result)
	w.scanned = true
	w.baselined = roots

	w.stats.records.Store(int64(w.differ.Len()))
	w.stats.creates.Add(int64(len(dispatch.Created)))
	w.stats.modifies.Add(int64(len(dispatch.Modified)))
	w.stats.deletes.Add(int64(len(dispatch.Deleted)))

	elapsed := w.timeProvider.Now().Sub(start)
	w.stats.observeCycle(elapsed, w.interval)

	if elapsed > w.interval {
		log.WithFields(logrus.Fields{
			"duration": elapsed,
			"interval": w.interval,
		}).Warn("cycle took longer than the interval")
	}

	log.WithFields(logrus.Fields{
		"records":  len(fresh),
		"created":  len(dispatch.Created),
		"modified": len(dispatch.Modified),
		"deleted":  len(dispatch.Deleted),
		"baseline": baseline,
		"duration": elapsed,
	}).Debug("cycle complete")

	w.emit(CycleComplete{
		Cycle:    n,
		Records:  w.differ.Len(),
		Created:  len(dispatch.Created),
		Modified: len(dispatch.Modified),
		Deleted:  len(dispatch.Deleted),
		Baseline: baseline,
		Duration: elapsed,
	})
}

// withoutBaseline drops the creations of the first cycle since a cold start;
// they establish the baseline silently. With baselineNewRoots it also drops
// creations under roots that have not completed a scan yet.
func (w *Watcher) withoutBaseline(created []FileRecord) ([]FileRecord, int) {
	if !w.scanned {
		return nil, len(created)
	}

	if !w.baselineNewRoots {
		return created, 0
	}

	kept := make([]FileRecord, 0, len(created))

	for _, rec := range created {
		if withinAny(w.baselined, rec.Path) {
			kept = append(kept, rec)
		}
	}

	return kept, len(created) - len(kept)
}

// stopped reports whether stopCh is closed. A nil channel is never stopped.
func stopped(stopCh <-chan struct{}) bool {
	select {
	case <-stopCh:
		return true
	default:
		return false
	}
}

package watcher

import (
	"sync"
	"time"
)

// Timer is an interface for time.Timer to allow mocking.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// TimeProvider provides time-related functionality for dependency injection.
type TimeProvider interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// RealTimer wraps time.Timer to implement the Timer interface.
type RealTimer struct {
	timer *time.Timer
}

// C returns the timer's channel.
func (r *RealTimer) C() <-chan time.Time {
	return r.timer.C
}

// Stop stops the timer.
func (r *RealTimer) Stop() bool {
	return r.timer.Stop()
}

// RealTimeProvider implements TimeProvider using real time functions.
type RealTimeProvider struct{}

// NewTimer creates a new timer.
func (r *RealTimeProvider) NewTimer(d time.Duration) Timer {
	return &RealTimer{timer: time.NewTimer(d)}
}

// Now returns the current time.
func (r *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimer is a mock implementation of Timer for testing.
type MockTimer struct {
	Duration time.Duration
	TickChan chan time.Time
}

// C returns the timer's channel.
func (m *MockTimer) C() <-chan time.Time {
	return m.TickChan
}

// Fire delivers a tick if none is pending.
func (m *MockTimer) Fire() {
	select {
	case m.TickChan <- time.Time{}:
	default:
	}
}

// Stop stops the timer.
func (m *MockTimer) Stop() bool {
	return true
}

// MockTimeProvider hands every timer it creates to Timers, so a test can wait
// for the scheduler to arm its next wait and then fire it. Arming happens
// right after a cycle finishes, so receiving a timer also means the previous
// cycle is complete.
type MockTimeProvider struct {
	Timers chan *MockTimer

	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider creates a provider whose clock starts at start.
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{
		Timers: make(chan *MockTimer, 64), //nolint:mnd // Room for tests that never drain
		now:    start,
	}
}

// Advance moves the clock forward.
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// NewTimer creates a timer that only fires when the test fires it.
func (m *MockTimeProvider) NewTimer(d time.Duration) Timer {
	timer := &MockTimer{Duration: d, TickChan: make(chan time.Time, 1)}
	m.Timers <- timer

	return timer
}

// Now returns the mock clock.
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

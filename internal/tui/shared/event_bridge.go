package shared

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/dirpoll/internal/watcher"
)

// EventBufferSize is the capacity of the bridge channel.
const EventBufferSize = 256

// ChangeMsg carries one change delivered to the bridge as a sink.
// Old is only set for modifications.
type ChangeMsg struct {
	Kind   watcher.EventKind
	Record watcher.FileRecord
	Old    watcher.FileRecord
}

// WatcherEventMsg wraps a watcher.Event for use as a tea.Msg.
type WatcherEventMsg struct {
	Event watcher.Event
}

// EventBridge adapts watcher callbacks to bubble tea messages.
// It is both a watcher.Sink and a watcher.EventEmitter. Sends never block the
// cycle goroutine: when the buffer is full the message is dropped and counted.
type EventBridge struct {
	mu        sync.RWMutex
	eventChan chan tea.Msg
	closed    bool
	dropped   atomic.Int64
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return NewEventBridgeSize(EventBufferSize)
}

// NewEventBridgeSize creates a bridge with the given buffer capacity.
func NewEventBridgeSize(size int) *EventBridge {
	return &EventBridge{eventChan: make(chan tea.Msg, size)}
}

// Emit implements watcher.EventEmitter.
func (b *EventBridge) Emit(event watcher.Event) {
	b.send(WatcherEventMsg{Event: event})
}

// OnWatchEvent implements watcher.Sink.
func (b *EventBridge) OnWatchEvent(kind watcher.EventKind, record watcher.FileRecord) {
	b.send(ChangeMsg{Kind: kind, Record: record})
}

// OnModifyFile implements watcher.ModifySink so the view can show size changes.
func (b *EventBridge) OnModifyFile(old, updated watcher.FileRecord) {
	b.send(ChangeMsg{Kind: watcher.Modify, Record: updated, Old: old})
}

// OnModifyDirectory implements watcher.ModifySink.
func (b *EventBridge) OnModifyDirectory(old, updated watcher.FileRecord) {
	b.send(ChangeMsg{Kind: watcher.Modify, Record: updated, Old: old})
}

// Dropped returns how many messages were discarded because the buffer was full.
func (b *EventBridge) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribe returns the event channel for receiving events.
func (b *EventBridge) Subscribe() <-chan tea.Msg {
	return b.eventChan
}

// ListenCmd returns a tea.Cmd that blocks until a message is received.
// Re-issue it after handling each message to keep listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil
		}

		return msg
	}
}

// Close closes the event channel. Later sends are ignored.
func (b *EventBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}

func (b *EventBridge) send(msg tea.Msg) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	select {
	case b.eventChan <- msg:
	default:
		b.dropped.Add(1)
	}
}

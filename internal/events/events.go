// Package events carries progress and log events across the worker/display
// boundary.
//
// The download worker is the single producer; the interactive side (CLI log
// renderer) consumes over buffered channels. Publish never blocks the
// worker: when a subscriber's buffer is full the event is dropped and
// counted.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted.
type EventType string

const (
	EventLog         EventType = "log"
	EventProgress    EventType = "progress"
	EventStateChange EventType = "state_change"
	EventComplete    EventType = "complete"
)

// LogLevel defines log severity levels.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// LogEvent is a timestamped progress log line.
type LogEvent struct {
	BaseEvent
	Level        LogLevel
	Message      string
	DeviceSerial string
	Error        error
}

// ProgressEvent reports per-device measurement progress.
type ProgressEvent struct {
	BaseEvent
	DeviceSerial string
	Current      int
	Total        int
	Message      string
}

// StateChangeEvent reports run state transitions.
type StateChangeEvent struct {
	BaseEvent
	OldState string
	NewState string
}

// CompleteEvent reports run completion.
type CompleteEvent struct {
	BaseEvent
	Processed  int
	ItemErrors int
	Aborted    bool
	Duration   time.Duration
}

// Bus manages event subscriptions and publishing.
type Bus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64
}

const defaultBuffer = 256

// NewBus creates an event bus with the given per-subscriber buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type.
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events.
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking the producer.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}

	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
}

// DroppedEventCount returns the number of events dropped due to full buffers.
func (b *Bus) DroppedEventCount() int64 {
	return b.droppedEvents.Load()
}

// PublishLog is a convenience method for publishing log events.
func (b *Bus) PublishLog(level LogLevel, message, deviceSerial string, err error) {
	b.Publish(&LogEvent{
		BaseEvent:    BaseEvent{EventType: EventLog, Time: time.Now()},
		Level:        level,
		Message:      message,
		DeviceSerial: deviceSerial,
		Error:        err,
	})
}

// PublishProgress is a convenience method for publishing progress events.
func (b *Bus) PublishProgress(deviceSerial string, current, total int, message string) {
	b.Publish(&ProgressEvent{
		BaseEvent:    BaseEvent{EventType: EventProgress, Time: time.Now()},
		DeviceSerial: deviceSerial,
		Current:      current,
		Total:        total,
		Message:      message,
	})
}

// PublishStateChange is a convenience method for publishing state changes.
func (b *Bus) PublishStateChange(oldState, newState string) {
	b.Publish(&StateChangeEvent{
		BaseEvent: BaseEvent{EventType: EventStateChange, Time: time.Now()},
		OldState:  oldState,
		NewState:  newState,
	})
}

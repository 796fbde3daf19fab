package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("logger", "events")

// CommandEvent describes one dispatched protocol command
type CommandEvent struct {
	Verb       string `json:"verb"`
	Key        string `json:"key,omitempty"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
}

const subscriberBuffer = 64

// Stream is an in-process broadcast of command events. Publishing never
// blocks: a subscriber that falls behind loses events, not the publisher.
type Stream struct {
	mu     sync.Mutex
	subs   map[int]chan CommandEvent
	nextID int
}

// NewStream creates an empty event stream
func NewStream() *Stream {
	return &Stream{subs: make(map[int]chan CommandEvent)}
}

// Publish delivers an event to every current subscriber
func (s *Stream) Publish(event CommandEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// subscriber is not keeping up, drop
		}
	}
}

// Subscribe registers a new subscriber and returns its event channel plus a
// cancel function that must be called when done
func (s *Stream) Subscribe() (<-chan CommandEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan CommandEvent, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

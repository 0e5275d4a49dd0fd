package eventbus

import (
	"context"
	"sync"

	"pkt.systems/adecon/schema"
	"pkt.systems/pslog"
)

// EventType identifies the event payload.
type EventType string

const (
	// EventOutput carries rendered console lines for a session.
	EventOutput EventType = "output"
	// EventTab carries tab lifecycle updates.
	EventTab EventType = "tab"
	// EventTree signals a rebuilt file tree.
	EventTree EventType = "tree"
)

// Event represents a UI-facing event emitted by the workbench service.
type Event struct {
	Type   EventType
	Output schema.OutputEvent
	Tab    schema.TabEvent
	Tree   schema.TreeEvent
}

// Bus fans events out to per-session subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.SessionKey]map[chan Event]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.SessionKey]map[chan Event]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the session and returns a channel plus
// cancel.
func (b *Bus) Subscribe(key schema.SessionKey) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan Event, b.depth)
	b.mu.Lock()
	sessionSubs := b.subs[key]
	if sessionSubs == nil {
		sessionSubs = make(map[chan Event]struct{})
		b.subs[key] = sessionSubs
	}
	sessionSubs[ch] = struct{}{}
	count := len(sessionSubs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.With("workspace", key.Workspace, "config", key.Config).Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		b.mu.Lock()
		if subs := b.subs[key]; subs != nil {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, key)
			}
		}
		b.mu.Unlock()
		close(ch)
		if b.log != nil {
			b.log.With("workspace", key.Workspace, "config", key.Config).Debug("eventbus unsubscribe")
		}
	}
}

// OnOutput publishes a console output event.
func (b *Bus) OnOutput(event schema.OutputEvent) {
	b.publish(event.Session, Event{Type: EventOutput, Output: event})
}

// OnTabEvent publishes a tab lifecycle event.
func (b *Bus) OnTabEvent(event schema.TabEvent) {
	b.publish(event.Session, Event{Type: EventTab, Tab: event})
}

// OnTreeEvent publishes a tree rebuild event.
func (b *Bus) OnTreeEvent(event schema.TreeEvent) {
	b.publish(event.Session, Event{Type: EventTree, Tree: event})
}

func (b *Bus) publish(key schema.SessionKey, event Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	sessionSubs := b.subs[key]
	subs := make([]chan Event, 0, len(sessionSubs))
	for sub := range sessionSubs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()
	if len(subs) == 0 {
		return
	}
	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 && b.log != nil {
		b.log.With("workspace", key.Workspace, "config", key.Config).Trace("eventbus dropped", "count", dropped)
	}
}

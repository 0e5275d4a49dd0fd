package nav

import (
	"context"
	"sync"

	"pkt.systems/pslog"
)

// NavigationKind classifies how a navigation reached the controller.
type NavigationKind string

const (
	// KindPush adds a new history entry.
	KindPush NavigationKind = "push"
	// KindReplace swaps the current history entry.
	KindReplace NavigationKind = "replace"
	// KindPop moves along existing history entries (back/forward).
	KindPop NavigationKind = "pop"
)

// Intent describes a pending navigation before it is committed.
type Intent struct {
	To       string
	Location Location
	Kind     NavigationKind
}

// Blocker vetoes a pending navigation by returning false.
type Blocker func(Intent) bool

type registeredBlocker struct {
	id int
	fn Blocker
}

// Controller is the single source of truth for the current location. All
// navigation, programmatic or history-driven, funnels through one commit
// path, and registered blockers may veto any of it. The controller never
// fails; a vetoed navigation simply leaves the location unchanged.
type Controller struct {
	mu       sync.Mutex
	entries  []Location
	index    int
	blockers []registeredBlocker
	nextID   int
	subs     map[chan Location]struct{}
	depth    int
	log      pslog.Logger
}

// NewController constructs a controller positioned at the start address.
func NewController(start string, logger pslog.Logger) *Controller {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Controller{
		entries: []Location{ParseLocation(start)},
		subs:    make(map[chan Location]struct{}),
		depth:   16,
		log:     logger,
	}
}

// Location returns the current location snapshot.
func (c *Controller) Location() Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[c.index]
}

// Navigate resolves to against the current location and pushes a new history
// entry. It reports whether the navigation committed.
func (c *Controller) Navigate(to string) bool {
	return c.navigate(to, KindPush)
}

// Replace resolves to against the current location and swaps the current
// history entry. It reports whether the navigation committed.
func (c *Controller) Replace(to string) bool {
	return c.navigate(to, KindReplace)
}

func (c *Controller) navigate(to string, kind NavigationKind) bool {
	c.mu.Lock()
	current := c.entries[c.index]
	blockers := append([]registeredBlocker(nil), c.blockers...)
	c.mu.Unlock()

	target := current.Resolve(to)
	intent := Intent{To: to, Location: target, Kind: kind}
	if vetoed(blockers, intent) {
		c.log.Debug("navigation vetoed", "to", to, "kind", kind)
		return false
	}

	c.mu.Lock()
	if kind == KindReplace {
		c.entries[c.index] = target
	} else {
		c.entries = append(c.entries[:c.index+1], target)
		c.index = len(c.entries) - 1
	}
	committed := c.entries[c.index]
	c.mu.Unlock()
	c.publish(committed)
	c.log.Trace("navigation committed", "to", committed.String(), "kind", kind)
	return true
}

// Back moves one entry toward the history start. It reports whether the
// navigation committed; a veto leaves the history pointer untouched.
func (c *Controller) Back() bool {
	return c.pop(-1)
}

// Forward moves one entry toward the history end. It reports whether the
// navigation committed; a veto leaves the history pointer untouched.
func (c *Controller) Forward() bool {
	return c.pop(1)
}

func (c *Controller) pop(delta int) bool {
	c.mu.Lock()
	next := c.index + delta
	if next < 0 || next >= len(c.entries) {
		c.mu.Unlock()
		return false
	}
	target := c.entries[next]
	blockers := append([]registeredBlocker(nil), c.blockers...)
	c.mu.Unlock()

	intent := Intent{To: target.String(), Location: target, Kind: KindPop}
	if vetoed(blockers, intent) {
		c.log.Debug("history move vetoed", "to", intent.To)
		return false
	}

	c.mu.Lock()
	c.index += delta
	committed := c.entries[c.index]
	c.mu.Unlock()
	c.publish(committed)
	return true
}

// RegisterBlocker adds a blocker and returns its deregistration func.
// Blockers run in registration order; any single false cancels the
// navigation.
func (c *Controller) RegisterBlocker(fn Blocker) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.blockers = append(c.blockers, registeredBlocker{id: id, fn: fn})
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		for i, b := range c.blockers {
			if b.id == id {
				c.blockers = append(c.blockers[:i], c.blockers[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
	}
}

// Subscribe registers a location-change subscriber and returns a channel plus
// cancel. Slow subscribers drop updates rather than block navigation.
func (c *Controller) Subscribe() (<-chan Location, func()) {
	ch := make(chan Location, c.depth)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()
	return ch, func() {
		c.mu.Lock()
		delete(c.subs, ch)
		c.mu.Unlock()
		close(ch)
	}
}

func (c *Controller) publish(loc Location) {
	c.mu.Lock()
	subs := make([]chan Location, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()
	for _, sub := range subs {
		select {
		case sub <- loc:
		default:
		}
	}
}

func vetoed(blockers []registeredBlocker, intent Intent) bool {
	for _, b := range blockers {
		if !b.fn(intent) {
			return true
		}
	}
	return false
}

package eventbus

import (
	"testing"

	"pkt.systems/adecon/schema"
)

func busKey(config string) schema.SessionKey {
	return schema.SessionKey{Workspace: "acme", Config: schema.ConfigID(config)}
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	bus := New(nil)
	ch, cancel := bus.Subscribe(busKey("invoices"))

	bus.OnOutput(schema.OutputEvent{Session: busKey("invoices"), Lines: []string{"hello"}})
	select {
	case ev := <-ch:
		if ev.Type != EventOutput || len(ev.Output.Lines) != 1 || ev.Output.Lines[0] != "hello" {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatalf("expected an output event")
	}

	cancel()
	// Publishing after unsubscribe must not panic on the closed channel.
	bus.OnOutput(schema.OutputEvent{Session: busKey("invoices"), Lines: []string{"late"}})
}

func TestEventsAreScopedToSession(t *testing.T) {
	bus := New(nil)
	a, cancelA := bus.Subscribe(busKey("a"))
	defer cancelA()
	b, cancelB := bus.Subscribe(busKey("b"))
	defer cancelB()

	bus.OnTabEvent(schema.TabEvent{Session: busKey("a"), Type: schema.TabEventOpened})

	select {
	case ev := <-a:
		if ev.Type != EventTab || ev.Tab.Type != schema.TabEventOpened {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatalf("expected tab event for session a")
	}
	select {
	case ev := <-b:
		t.Fatalf("session b must not receive a's events, got %+v", ev)
	default:
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := New(nil)
	bus.depth = 1
	ch, cancel := bus.Subscribe(busKey("invoices"))
	defer cancel()

	// The second publish overflows the single-slot buffer and is dropped.
	bus.OnOutput(schema.OutputEvent{Session: busKey("invoices"), Lines: []string{"one"}})
	bus.OnOutput(schema.OutputEvent{Session: busKey("invoices"), Lines: []string{"two"}})

	ev := <-ch
	if ev.Output.Lines[0] != "one" {
		t.Fatalf("expected first event, got %+v", ev)
	}
	select {
	case ev := <-ch:
		t.Fatalf("expected overflow drop, got %+v", ev)
	default:
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	ch, cancel := bus.Subscribe(busKey("invoices"))
	if ch != nil {
		t.Fatalf("nil bus must return nil channel")
	}
	cancel()
	bus.OnTreeEvent(schema.TreeEvent{Session: busKey("invoices")})
}

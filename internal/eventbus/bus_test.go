package eventbus

import (
	"testing"

	"github.com/nguyentantai21042004/meeting-scribe/internal/logger"
)

func TestPublishFanOut(t *testing.T) {
	bus := New(logger.NewNop())
	defer bus.Close()

	a, cancelA := bus.Subscribe(4)
	defer cancelA()
	b, cancelB := bus.Subscribe(4)
	defer cancelB()

	bus.Publish(Event{Kind: KindAdded, SessionID: "s1"})

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.Kind != KindAdded || ev.SessionID != "s1" {
				t.Errorf("%s got %+v, want added/s1", name, ev)
			}
			if ev.ID == "" || ev.At.IsZero() {
				t.Errorf("%s got unstamped event %+v", name, ev)
			}
		default:
			t.Errorf("%s received nothing", name)
		}
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := New(logger.NewNop())
	defer bus.Close()

	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Publish(Event{Kind: KindStatusChanged, SessionID: "s1", Status: "transcribing"})
	bus.Publish(Event{Kind: KindStatusChanged, SessionID: "s1", Status: "summarizing"})

	ev := <-ch
	if ev.Status != "transcribing" {
		t.Errorf("Status = %q, want %q", ev.Status, "transcribing")
	}
	select {
	case ev := <-ch:
		t.Errorf("unexpected second event %+v", ev)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := New(logger.NewNop())
	ch, cancel := bus.Subscribe(1)
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	// publishing without subscribers must be harmless
	bus.Publish(Event{Kind: KindCleared})
	bus.Close()
	bus.Publish(Event{Kind: KindCleared})

	late, _ := bus.Subscribe(1)
	if _, ok := <-late; ok {
		t.Error("subscribe after Close should return a closed channel")
	}
}

package plex

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

type greeter struct {
	greeted []string
}

func (g *greeter) Bindings() []Binding {
	return []Binding{
		Bind("greet", Normal, false, g.greet),
	}
}

func (g *greeter) greet(_ *Dispatch, e *testEvent) error {
	g.greeted = append(g.greeted, "greet")
	e.calls = append(e.calls, "greet")
	return nil
}

func TestBuilder_Bundles(t *testing.T) {
	g := &greeter{}
	var hooked *Bus

	bundle := NewBundle("greetings").
		Events(Declare[*testEvent]()).
		Listener(g).
		PostInit(func(b *Bus) { hooked = b })
	Handle(bundle, Monitor, false, record("monitor"))

	bus := NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Bundle(bundle).
		Build()

	if hooked != bus {
		t.Error("post-init hook did not receive the bus")
	}
	if got := len(bundle.Handlers()); got != 2 {
		t.Fatalf("bundle registered %d handlers, want 2", got)
	}
	for _, h := range bundle.Handlers() {
		if h.Owner() != bundle.Owner() {
			t.Errorf("%v owned by %v, want %v", h, h.Owner(), bundle.Owner())
		}
	}

	e := &testEvent{}
	if err := bus.CallEvent(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if want := []string{"greet", "monitor"}; !reflect.DeepEqual(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}

	if n := bundle.Unload(bus); n != 2 {
		t.Errorf("Unload = %d, want 2", n)
	}
	e = &testEvent{}
	if err := bus.CallEvent(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if len(e.calls) != 0 {
		t.Errorf("calls after Unload = %v", e.calls)
	}
}

func TestBuilder_StartAsync(t *testing.T) {
	bus := NewBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Events(Declare[*asyncEvent]()).
		StartAsync().
		Build()
	defer bus.Stop(context.Background())

	ch, err := bus.Post(context.Background(), newAsyncEvent(), nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := waitResult(t, ch); err != nil {
		t.Errorf("dispatch = %v", err)
	}
}

func TestBuilder_PanicsOnBadDeclaration(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Build did not panic")
		}
	}()
	NewBuilder().
		Events(Declare[*testEvent](), DeclareChild[*testEvent, *plainEvent]()).
		Build()
}

func TestBuilder_PanicsOnUndeclaredHandler(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Build did not panic")
		}
	}()
	bundle := NewBundle("broken")
	Handle(bundle, Normal, false, record("orphan"))
	NewBuilder().Bundle(bundle).Build()
}

package watching

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNoOpSourceNeverEmits(t *testing.T) {
	source := NewNoOpSource()
	defer source.Stop()

	select {
	case ev := <-source.Events():
		t.Fatal("expected no event, got", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNoOpSourceClosesOnStop(t *testing.T) {
	source := NewNoOpSource()
	source.Stop()
	_, open := <-source.Events()
	if open {
		t.Error("expected channel to be closed after Stop")
	}
}

func TestInjectableSourceDeliversInOrder(t *testing.T) {
	source := NewInjectableSource()
	defer source.Stop()

	source.Inject(Event{Kind: Created, Path: "/root/a.txt"})
	source.Inject(Event{Kind: Deleted, Path: "/root/a.txt"})

	first := <-source.Events()
	second := <-source.Events()
	if first.Kind != Created || second.Kind != Deleted {
		t.Error("events delivered out of order")
	}
}

func TestNativeSourceMissingRootIsNoOp(t *testing.T) {
	source, err := NewNativeSource(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer source.Stop()

	select {
	case ev := <-source.Events():
		t.Fatal("expected no event for missing root, got", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNativeSourceObservesCreate(t *testing.T) {
	root := t.TempDir()

	source, err := NewNativeSource(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer source.Stop()

	target := filepath.Join(root, "a.txt")
	if err := os.WriteFile(target, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-source.Events():
			if ev.Kind == Created && ev.Path == target {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for Created event")
		}
	}
}

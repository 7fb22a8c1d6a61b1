package broadcaster

import (
	"reflect"
	"testing"
	"time"
)

// fakeRoster is a RosterSource returning a fixed, swappable roster
type fakeRoster struct {
	roster []string
}

func (f *fakeRoster) List() []string {
	out := make([]string, len(f.roster))
	copy(out, f.roster)
	return out
}

func recv(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case roster, ok := <-ch:
		if !ok {
			t.Fatal("subscriber channel closed unexpectedly")
		}
		return roster
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for roster update")
		return nil
	}
}

func TestSubscribeSeedsRoster(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1", "camera2"}}
	b := New(src, nil)

	updates, cancel := b.Subscribe(4)
	defer cancel()

	if got := recv(t, updates); !reflect.DeepEqual(got, []string{"camera1", "camera2"}) {
		t.Errorf("seed roster: got %v", got)
	}
}

func TestAnnounceFansOut(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1"}}
	b := New(src, nil)

	ch1, cancel1 := b.Subscribe(4)
	ch2, cancel2 := b.Subscribe(4)
	defer cancel1()
	defer cancel2()
	recv(t, ch1)
	recv(t, ch2)

	src.roster = []string{"camera1", "camera2"}
	b.Announce()

	want := []string{"camera1", "camera2"}
	if got := recv(t, ch1); !reflect.DeepEqual(got, want) {
		t.Errorf("subscriber 1: got %v, want %v", got, want)
	}
	if got := recv(t, ch2); !reflect.DeepEqual(got, want) {
		t.Errorf("subscriber 2: got %v, want %v", got, want)
	}
}

// Announce runs on every upload even when the roster is unchanged; each
// announce must produce a push.
func TestAnnounceUnconditional(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1"}}
	b := New(src, nil)

	updates, cancel := b.Subscribe(8)
	defer cancel()
	recv(t, updates)

	b.Announce()
	b.Announce()
	b.Announce()

	for i := 0; i < 3; i++ {
		if got := recv(t, updates); !reflect.DeepEqual(got, []string{"camera1"}) {
			t.Errorf("announce %d: got %v", i, got)
		}
	}
}

// A subscriber that stops draining must not block Announce; it just misses
// snapshots.
func TestAnnounceDropsWhenFull(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1"}}
	b := New(src, nil)

	updates, cancel := b.Subscribe(1)
	defer cancel()
	// Do not drain: the seed fills the buffer.

	done := make(chan struct{})
	go func() {
		b.Announce()
		b.Announce()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Announce blocked on a full subscriber")
	}

	// Only the seed is buffered.
	recv(t, updates)
	select {
	case roster := <-updates:
		t.Errorf("unexpected buffered update: %v", roster)
	default:
	}
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1"}}
	b := New(src, nil)

	updates, cancel := b.Subscribe(4)
	recv(t, updates)
	cancel()

	if _, ok := <-updates; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if got := b.SubscriberCount(); got != 0 {
		t.Errorf("subscriber count: got %d, want 0", got)
	}

	// Announce after unsubscribe must not panic or resurrect the channel.
	b.Announce()
	cancel() // double cancel is a no-op
}

func TestRosterOnDemand(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"a", "b"}}
	b := New(src, nil)

	if got := b.Roster(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Roster: got %v", got)
	}
}

func TestClose(t *testing.T) {
	t.Parallel()
	src := &fakeRoster{roster: []string{"camera1"}}
	b := New(src, nil)

	ch1, _ := b.Subscribe(4)
	ch2, _ := b.Subscribe(4)
	recv(t, ch1)
	recv(t, ch2)

	b.Close()

	if _, ok := <-ch1; ok {
		t.Error("channel 1 should be closed")
	}
	if _, ok := <-ch2; ok {
		t.Error("channel 2 should be closed")
	}

	// After close: announce is a no-op, new subscribers get a closed channel.
	b.Announce()
	ch3, cancel3 := b.Subscribe(4)
	if _, ok := <-ch3; ok {
		t.Error("subscribe after close should return a closed channel")
	}
	cancel3()
	b.Close() // idempotent
}

package realtime

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeViewer struct {
	id     string
	fail   bool
	block  chan struct{}
	mu     sync.Mutex
	got    [][]byte
	closed bool
}

func (f *fakeViewer) ID() string { return f.id }

func (f *fakeViewer) Send(msg []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.got = append(f.got, msg)
	return nil
}

func (f *fakeViewer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeViewer) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func (f *fakeViewer) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Forward(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func TestHubPublishReachesAllViewers(t *testing.T) {
	h := NewHub()
	a := &fakeViewer{id: "a"}
	b := &fakeViewer{id: "b"}
	h.Register(a)
	h.Register(b)

	h.Publish(TicketUpdated{})

	waitFor(t, func() bool { return a.received() == 1 && b.received() == 1 })
}

func TestHubUnregisteredViewerReceivesNothing(t *testing.T) {
	h := NewHub()
	a := &fakeViewer{id: "a"}
	b := &fakeViewer{id: "b"}
	gone := &fakeViewer{id: "gone"}
	h.Register(a)
	h.Register(b)
	h.Register(gone)
	h.Unregister("gone")

	h.Publish(WarningAdded{ServerID: "g1"})

	waitFor(t, func() bool { return a.received() == 1 && b.received() == 1 })
	if gone.received() != 0 {
		t.Errorf("disconnected viewer deliveries = %v, want 0", gone.received())
	}
	if !gone.isClosed() {
		t.Error("unregistered viewer was not closed")
	}
	if h.Count() != 2 {
		t.Errorf("Count() = %v, want 2", h.Count())
	}
}

func TestHubDropsFailingViewer(t *testing.T) {
	h := NewHub()
	ok := &fakeViewer{id: "ok"}
	bad := &fakeViewer{id: "bad", fail: true}
	h.Register(ok)
	h.Register(bad)

	h.Publish(CategoryDeleted{CategoryID: 1})

	waitFor(t, func() bool { return h.Count() == 1 && bad.isClosed() })
	waitFor(t, func() bool { return ok.received() == 1 })
}

func TestHubPublishDoesNotWaitForSlowViewers(t *testing.T) {
	h := NewHub()
	release := make(chan struct{})
	defer close(release)

	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		h.Register(&fakeViewer{id: id, block: release})
	}

	done := make(chan struct{})
	go func() {
		h.Publish(TicketCreated{ServerID: "g1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked on slow viewers")
	}
}

func TestHubDropsViewerWithFullQueue(t *testing.T) {
	h := NewHub()
	release := make(chan struct{})
	defer close(release)

	stuck := &fakeViewer{id: "stuck", block: release}
	fast := &fakeViewer{id: "fast"}
	h.Register(stuck)
	h.Register(fast)

	// One message is held by the blocked Send, the rest fill the queue.
	for i := 0; i < viewerBuffer+2; i++ {
		h.Publish(TicketUpdated{})
		want := i + 1
		waitFor(t, func() bool { return fast.received() == want })
	}

	if h.Count() != 1 {
		t.Errorf("Count() = %v, want 1", h.Count())
	}
	if !stuck.isClosed() {
		t.Error("slow viewer was not closed")
	}
}

func TestHubSinks(t *testing.T) {
	h := NewHub()
	sink := &recordingSink{}
	h.AddSink(sink)

	h.Publish(TicketClaimed{})
	h.Deliver(TicketClaimed{})

	if len(sink.events) != 1 {
		t.Errorf("sink events = %v, want 1 (Deliver must not forward)", len(sink.events))
	}
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	v := &fakeViewer{id: "v"}
	h.Register(v)
	h.Close()

	if !v.isClosed() {
		t.Error("viewer not closed by Close()")
	}
	late := &fakeViewer{id: "late"}
	h.Register(late)
	if h.Count() != 0 || !late.isClosed() {
		t.Error("hub accepted a viewer after Close()")
	}
}

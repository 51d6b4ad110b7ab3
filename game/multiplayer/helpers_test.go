package multiplayer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/session"
)

// fakeLink records sent lines and lets a test play the server.
type fakeLink struct {
	mu      sync.Mutex
	sent    []string
	onFrame func(string)
	onLost  func(error)
	sendErr error
	closed  bool
}

func (f *fakeLink) Connect(_ context.Context, onFrame func(string), onLost func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onFrame = onFrame
	f.onLost = onLost
	return nil
}

func (f *fakeLink) Send(line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, line)
	return nil
}

func (f *fakeLink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// take returns and forgets everything sent so far.
func (f *fakeLink) take() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sent
	f.sent = nil
	return out
}

func (f *fakeLink) deliver(lines ...string) {
	f.mu.Lock()
	onFrame := f.onFrame
	f.mu.Unlock()
	for _, l := range lines {
		onFrame(l + "\n")
	}
}

func (f *fakeLink) lose(err error) {
	f.mu.Lock()
	onLost := f.onLost
	f.mu.Unlock()
	onLost(err)
}

// recordingLogic records every callback as a short string.
type recordingLogic struct {
	mu       sync.Mutex
	events   []string
	snapshot board.Snapshot
	local    string
}

func (r *recordingLogic) record(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordingLogic) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

func (r *recordingLogic) OnLetterTouched(x, y int)        { r.record("touch %d %d", x, y) }
func (r *recordingLogic) OnSelectionEnded()               { r.record("end") }
func (r *recordingLogic) OnHintUsed()                     { r.record("hint") }
func (r *recordingLogic) OnHostPromoted()                 { r.record("host") }
func (r *recordingLogic) OnPeerJoined(id string)          { r.record("joined %s", id) }
func (r *recordingLogic) OnPeerLeft(id string)            { r.record("left %s", id) }
func (r *recordingLogic) OnThemeWordRevealed(word string) { r.record("word %s", word) }
func (r *recordingLogic) OnSpangramRevealed(c []board.Coord) {
	r.record("spangram %v", c)
}
func (r *recordingLogic) OnHintBudgetChanged(n int)      { r.record("budget %d", n) }
func (r *recordingLogic) OnCatalogEntry(s board.Summary) { r.record("catalog %s", s.Date) }
func (r *recordingLogic) OnBoardReady(doc *board.Document) {
	r.record("board %s", doc.PrintDate)
}

func (r *recordingLogic) ProduceSnapshot() board.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot
}

func (r *recordingLogic) LocalBoard() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.local
}

// recordingNotifier records notice keys.
type recordingNotifier struct {
	mu   sync.Mutex
	keys []string
}

func (n *recordingNotifier) Error(key, _ string) { n.add("error:" + key) }
func (n *recordingNotifier) Info(key, _ string)  { n.add("info:" + key) }

func (n *recordingNotifier) add(k string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, k)
}

func (n *recordingNotifier) has(k string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, have := range n.keys {
		if have == k {
			return true
		}
	}
	return false
}

type harness struct {
	client   *Client
	link     *fakeLink
	logic    *recordingLogic
	notifier *recordingNotifier
	store    *session.MemoryPersistence
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		link:     &fakeLink{},
		logic:    &recordingLogic{},
		notifier: &recordingNotifier{},
		store:    session.NewMemoryPersistence(),
	}
	base := []Option{
		WithLogger(discardLogger()),
		WithNotifier(h.notifier),
		WithIdentityStore(h.store),
		WithReplayStep(0),
		WithAutoSync(false),
	}
	h.client = New(h.link, h.logic, append(base, opts...)...)
	if err := h.client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return h
}

// login completes a fresh HELLO as u1/s1.
func (h *harness) login(t *testing.T) {
	t.Helper()
	req := h.client.Login(session.Identity{})
	h.link.deliver("HELLO u1 s1")
	if _, err := wait(t, req); err != nil {
		t.Fatalf("login: %v", err)
	}
	h.link.take()
}

// join completes a JOIN of roomID.
func (h *harness) join(t *testing.T, roomID string) {
	t.Helper()
	req := h.client.JoinRoom(roomID, "")
	h.link.deliver("COOL")
	if ok, err := wait(t, req); !ok || err != nil {
		t.Fatalf("join: %v %v", ok, err)
	}
	h.link.take()
}

// host completes CreateRoom and its join.
func (h *harness) host(t *testing.T, roomID string) {
	t.Helper()
	req := h.client.CreateRoom("", "")
	h.link.deliver("NEWROOM "+roomID, "COOL")
	if id, err := wait(t, req); id != roomID || err != nil {
		t.Fatalf("create: %q %v", id, err)
	}
	h.link.take()
}

func wait[T any](t *testing.T, req *Request[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := req.Wait(ctx)
	if err == context.DeadlineExceeded {
		t.Fatal("request did not complete")
	}
	return v, err
}

func pendingNow[T any](req *Request[T]) bool {
	select {
	case <-req.Done():
		return false
	default:
		return true
	}
}

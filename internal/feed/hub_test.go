package feed

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-blockstage/internal/core"
	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

type fakeControl struct {
	mu    sync.Mutex
	plays int
	stops int
}

func (f *fakeControl) PlayAll() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return 1
}

func (f *fakeControl) StopAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeControl) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays, f.stops
}

func newTestHub(t *testing.T, control Controller) (*stage.Store, *Hub, *websocket.Conn) {
	t.Helper()

	store := stage.New(core.DefaultConfig(), nil)
	store.Init()

	hub := NewHub(store, control, log.New(io.Discard))
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return store, hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad message %q: %v", data, err)
	}
	return msg
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSnapshotOnConnect(t *testing.T) {
	_, _, conn := newTestHub(t, nil)

	msg := readMessage(t, conn)
	if msg.Type != TypeSnapshot {
		t.Fatalf("first message type = %q, expected snapshot", msg.Type)
	}
	if len(msg.Actors) != 1 {
		t.Fatalf("snapshot has %d actors, expected 1", len(msg.Actors))
	}
	a := msg.Actors[0]
	if a.Name != "Sprite1" || a.X != 100 || a.Y != 100 || a.Step != nil {
		t.Errorf("unexpected actor: %+v", a)
	}
}

func TestStreamsUpdates(t *testing.T) {
	store, hub, conn := newTestHub(t, nil)
	readMessage(t, conn)
	waitFor(t, "subscriber", func() bool { return hub.SubscriberCount() == 1 })

	if _, err := store.Update(1, stage.Patch{}.WithPosition(core.Vec{X: 120, Y: 90}).WithStep(2)); err != nil {
		t.Fatal(err)
	}

	msg := readMessage(t, conn)
	if msg.Type != TypeActor {
		t.Fatalf("message type = %q, expected actor", msg.Type)
	}
	if msg.Actor == nil || msg.Actor.X != 120 || msg.Actor.Y != 90 {
		t.Fatalf("unexpected actor: %+v", msg.Actor)
	}
	if msg.Actor.Step == nil || *msg.Actor.Step != 2 {
		t.Errorf("step = %v, expected 2", msg.Actor.Step)
	}
	changed := strings.Join(msg.Changed, ",")
	if !strings.Contains(changed, "position") || !strings.Contains(changed, "step") {
		t.Errorf("changed = %v", msg.Changed)
	}
}

func TestStreamsDeletes(t *testing.T) {
	store, hub, conn := newTestHub(t, nil)
	readMessage(t, conn)
	waitFor(t, "subscriber", func() bool { return hub.SubscriberCount() == 1 })

	added := store.AddActor()
	if msg := readMessage(t, conn); msg.Type != TypeActor || msg.Actor.ID != int(added.ID) {
		t.Fatalf("expected create event for %d, got %+v", added.ID, msg)
	}

	if err := store.DeleteActor(added.ID); err != nil {
		t.Fatal(err)
	}
	msg := readMessage(t, conn)
	if msg.Type != TypeDeleted || msg.Actor.ID != int(added.ID) {
		t.Errorf("expected delete event for %d, got %+v", added.ID, msg)
	}
}

func TestClientCommands(t *testing.T) {
	control := &fakeControl{}
	_, _, conn := newTestHub(t, control)
	readMessage(t, conn)

	for _, cmd := range []string{`{"op":"play"}`, `not json`, `{"op":"jump"}`, `{"op":"stop"}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
			t.Fatalf("write %s: %v", cmd, err)
		}
	}

	waitFor(t, "commands", func() bool {
		plays, stops := control.counts()
		return plays == 1 && stops == 1
	})
}

func TestCloseDisconnectsClients(t *testing.T) {
	_, hub, conn := newTestHub(t, nil)
	readMessage(t, conn)
	waitFor(t, "subscriber", func() bool { return hub.SubscriberCount() == 1 })

	hub.Close()
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection to close")
	}
	if n := hub.SubscriberCount(); n != 0 {
		t.Errorf("SubscriberCount() = %d after Close", n)
	}
}

func TestEventsFollowSnapshot(t *testing.T) {
	store := stage.New(core.DefaultConfig(), nil)
	store.Init()
	hub := NewHub(store, nil, nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	// Keep the store busy while the client connects
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			store.Update(1, stage.Patch{}.WithStep(i%1000))
			time.Sleep(100 * time.Microsecond)
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	snap := readMessage(t, conn)
	last := snap.Seq
	for range 20 {
		msg := readMessage(t, conn)
		if msg.Seq <= last {
			t.Errorf("event seq %d after %d; already covered by the snapshot or out of order", msg.Seq, last)
		}
		last = msg.Seq
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	store := stage.New(core.DefaultConfig(), nil)
	store.Init()
	hub := NewHub(store, nil, nil)
	defer hub.Close()

	// A plain request fails the upgrade, which is logged
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))
	if rec.Code == http.StatusSwitchingProtocols {
		t.Errorf("plain request should not upgrade")
	}
}

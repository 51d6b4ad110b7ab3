package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/strands-coop/game/board"
)

func TestHubRegisterObserver(t *testing.T) {
	hub := NewHub(nil)

	o := &Observer{hub: hub, roomID: "r1", send: make(chan []byte, 256)}
	hub.registerObserver(o)

	if !hub.rooms["r1"][o] {
		t.Fatal("observer was not registered in room")
	}

	hub.unregisterObserver(o)
	if _, exists := hub.rooms["r1"]; exists {
		t.Error("room should have been cleaned up after last observer left")
	}
}

func TestHubMultipleObserversInRoom(t *testing.T) {
	hub := NewHub(nil)

	o1 := &Observer{hub: hub, roomID: "r1", send: make(chan []byte, 256)}
	o2 := &Observer{hub: hub, roomID: "r1", send: make(chan []byte, 256)}
	hub.registerObserver(o1)
	hub.registerObserver(o2)

	if len(hub.rooms["r1"]) != 2 {
		t.Fatalf("expected 2 observers, got %d", len(hub.rooms["r1"]))
	}

	hub.unregisterObserver(o1)
	if !hub.rooms["r1"][o2] {
		t.Error("o2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub(nil)

	inRoom := &Observer{hub: hub, roomID: "r1", send: make(chan []byte, 1)}
	elsewhere := &Observer{hub: hub, roomID: "r2", send: make(chan []byte, 1)}
	hub.registerObserver(inRoom)
	hub.registerObserver(elsewhere)

	snap := board.Snapshot{ThemeWordsFound: []string{"CAT"}, WordsToHint: 2}
	hub.broadcastMessage(&Message{RoomID: "r1", Snapshot: &snap, Event: "snapshot"})

	select {
	case data := <-inRoom.send:
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if m.Event != "snapshot" || m.Snapshot == nil || m.Snapshot.WordsToHint != 2 {
			t.Errorf("unexpected message %+v", m)
		}
	default:
		t.Fatal("observer in room got nothing")
	}

	select {
	case <-elsewhere.send:
		t.Error("observer of another room received the message")
	default:
	}
}

func TestHubDropsSlowObserver(t *testing.T) {
	hub := NewHub(nil)

	slow := &Observer{hub: hub, roomID: "r1", send: make(chan []byte)}
	hub.registerObserver(slow)
	hub.broadcastMessage(&Message{RoomID: "r1", Event: "x"})

	if _, exists := hub.rooms["r1"]; exists {
		t.Error("slow observer should have been unregistered")
	}
}

func TestHubServeWS(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("room"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=r9"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration is asynchronous; keep pushing until one lands.
	deadline := time.Now().Add(time.Second)
	conn.SetReadDeadline(deadline)
	received := make(chan Message, 1)
	go func() {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m Message
		if json.Unmarshal(data, &m) == nil {
			received <- m
		}
	}()

	for time.Now().Before(deadline) {
		hub.BroadcastSnapshot("r9", board.Snapshot{SpangramFound: true})
		select {
		case m := <-received:
			if m.RoomID != "r9" || m.Snapshot == nil || !m.Snapshot.SpangramFound {
				t.Errorf("unexpected message %+v", m)
			}
			return
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatal("no snapshot received")
}

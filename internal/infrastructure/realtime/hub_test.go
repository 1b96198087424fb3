package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, hub *Hub, room string) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Join(room, w, r)
	}))

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial failed: %v", err)
	}
	return conn, ts
}

func waitForRoomSize(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for hub.RoomSize(room) != want {
		select {
		case <-deadline:
			t.Fatalf("room %q size = %d, want %d", room, hub.RoomSize(room), want)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestBroadcastReachesRoomClients(t *testing.T) {
	hub := NewHub(nil)
	conn, ts := dialRoom(t, hub, "call-1")
	defer ts.Close()
	defer conn.Close()

	waitForRoomSize(t, hub, "call-1", 1)

	hub.Broadcast("call-1", EventAgentResponse, ResponseEvent{
		CallID:       "call-1",
		AgentName:    "Priya",
		ResponseText: "I think it works well",
		Region:       "tamil",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Event != EventAgentResponse {
		t.Errorf("event = %q", env.Event)
	}
	data, _ := env.Data.(map[string]interface{})
	if data["agentName"] != "Priya" {
		t.Errorf("agentName = %v", data["agentName"])
	}
}

func TestBroadcastIsolatesRooms(t *testing.T) {
	hub := NewHub(nil)
	conn, ts := dialRoom(t, hub, "call-a")
	defer ts.Close()
	defer conn.Close()

	waitForRoomSize(t, hub, "call-a", 1)

	hub.Broadcast("call-b", EventAgentTyping, TypingEvent{CallID: "call-b", AgentName: "Arjun", IsTyping: true})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("client received an event for another room")
	}
}

func TestDisconnectShrinksRoom(t *testing.T) {
	hub := NewHub(nil)
	conn, ts := dialRoom(t, hub, "call-1")
	defer ts.Close()

	waitForRoomSize(t, hub, "call-1", 1)
	conn.Close()
	waitForRoomSize(t, hub, "call-1", 0)
}

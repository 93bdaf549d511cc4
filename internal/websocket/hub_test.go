package websocket

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/internal/models"
)

func quietLog(t *testing.T) {
	t.Helper()
	prev := log.Writer()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(prev) })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func fakeClient(h *Hub, id string, role models.Role) *Client {
	c := &Client{UserID: id, UserRole: role, hub: h, send: make(chan []byte, 4)}
	h.register <- c
	return c
}

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatal(err)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("%s received nothing", c.UserID)
	}
	return Event{}
}

func TestPublishBinStatusReachesOwnerAndAdmins(t *testing.T) {
	quietLog(t)
	h := NewHub()
	go h.Run()

	admin := fakeClient(h, "admin", models.RoleAdmin)
	owner := fakeClient(h, "owner", models.RoleBinOwner)
	other := fakeClient(h, "other", models.RoleBinOwner)
	collector := fakeClient(h, "collector", models.RoleCollector)
	waitFor(t, func() bool { return h.GetClientCount() == 4 })

	h.PublishBinStatus("owner", models.BinStatusUpdate{BinID: "B-1", GlassLevel: 90})

	for _, c := range []*Client{admin, owner} {
		if ev := recv(t, c); ev.Type != EventBinStatus {
			t.Errorf("%s got %q", c.UserID, ev.Type)
		}
	}
	for _, c := range []*Client{other, collector} {
		select {
		case raw := <-c.send:
			t.Errorf("%s should not receive %s", c.UserID, raw)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	quietLog(t)
	h := NewHub()
	go h.Run()

	c := fakeClient(h, "u1", models.RoleAdmin)
	waitFor(t, func() bool { return h.IsUserConnected("u1") })
	h.unregister <- c
	waitFor(t, func() bool { return !h.IsUserConnected("u1") })
	if _, open := <-c.send; open {
		t.Error("send channel still open")
	}
}

func TestReconnectReplacesPreviousClient(t *testing.T) {
	quietLog(t)
	h := NewHub()
	go h.Run()

	first := fakeClient(h, "u1", models.RoleAdmin)
	second := fakeClient(h, "u1", models.RoleAdmin)
	waitFor(t, func() bool { return h.GetClientCount() == 1 })
	if _, open := <-first.send; open {
		t.Error("replaced client still open")
	}

	// A late unregister of the replaced client leaves the new one alone.
	h.unregister <- first
	h.BroadcastToUser("u1", Event{Type: "pong"})
	if ev := recv(t, second); ev.Type != "pong" {
		t.Errorf("got %q", ev.Type)
	}
}

func TestHandleWebSocket(t *testing.T) {
	quietLog(t)
	t.Setenv("APP_JWT_SECRET", "test-secret")
	h := NewHub()
	go h.Run()
	srv := httptest.NewServer(HandleWebSocket(h))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dial without token: err=%v resp=%v", err, resp)
	}

	token, err := middleware.IssueToken(models.User{ID: "a1", Role: models.RoleAdmin}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return h.IsUserConnected("a1") })

	h.PublishBinStatus("", models.BinStatusUpdate{BinID: "B-9", PaperLevel: 81})
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var ev struct {
		Type string                 `json:"type"`
		Data models.BinStatusUpdate `json:"data"`
	}
	if err := json.Unmarshal(frame, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != EventBinStatus || ev.Data.BinID != "B-9" || ev.Data.PaperLevel != 81 {
		t.Errorf("frame = %s", frame)
	}
}

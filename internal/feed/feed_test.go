package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"smartwaste-dashboard/internal/models"
)

func TestDecodeSplitsBatches(t *testing.T) {
	frame := []byte(`{"type":"bin_status","data":{"binId":"B-1","plasticLevel":40}}
{"binId":"B-2","glassLevel":91}

{"type":"route_assigned","data":{"routeId":"r1"}}
not json`)

	msgs := Decode(frame)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages: %#v", len(msgs), msgs)
	}
	if m, ok := msgs[0].(BinStatusMsg); !ok || m.Update.BinID != "B-1" || m.Update.PlasticLevel != 40 {
		t.Errorf("msgs[0] = %#v", msgs[0])
	}
	if m, ok := msgs[1].(BinStatusMsg); !ok || m.Update.GlassLevel != 91 {
		t.Errorf("msgs[1] = %#v", msgs[1])
	}
	if m, ok := msgs[2].(EventMsg); !ok || m.Event.Type != "route_assigned" {
		t.Errorf("msgs[2] = %#v", msgs[2])
	}
}

func TestAlertThreshold(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if _, ok := Alert(models.BinStatusUpdate{BinID: "B-1", PaperLevel: 79}, now); ok {
		t.Error("79% should not alert")
	}
	n, ok := Alert(models.BinStatusUpdate{BinID: "B-1", PaperLevel: 80}, now)
	if !ok {
		t.Fatal("80% should alert")
	}
	if n.Message != "Bin B-1 nearly full (80%)" || n.BinID != "B-1" || n.IsRead || n.ID == "" {
		t.Errorf("notification = %+v", n)
	}
	if n.CreatedAt != "2026-03-01 09:30:00" {
		t.Errorf("createdAt = %q", n.CreatedAt)
	}
}

func TestRunReconnectsAndPassesToken(t *testing.T) {
	var conns atomic.Int32
	tokens := make(chan string, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens <- r.URL.Query().Get("token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		n := conns.Add(1)
		frame := `{"type":"bin_status","data":{"binId":"B-` + string(rune('0'+n)) + `"}}`
		conn.WriteMessage(websocket.TextMessage, []byte(frame))
		if n == 1 {
			return
		}
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan tea.Msg, 16)
	c := New("ws"+strings.TrimPrefix(srv.URL, "http"), "tok-123", WithBackoff(10*time.Millisecond))
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, func(m tea.Msg) { msgs <- m }) }()

	var bins []string
	timeout := time.After(5 * time.Second)
	for len(bins) < 2 {
		select {
		case m := <-msgs:
			if b, ok := m.(BinStatusMsg); ok {
				bins = append(bins, b.Update.BinID)
			}
		case <-timeout:
			t.Fatalf("timed out, got %v", bins)
		}
	}
	if bins[0] != "B-1" || bins[1] != "B-2" {
		t.Errorf("bins = %v", bins)
	}
	if tok := <-tokens; tok != "tok-123" {
		t.Errorf("token = %q", tok)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

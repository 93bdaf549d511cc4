// Package feed keeps a WebSocket connection to the bin-status stream open
// and turns its frames into bubbletea messages.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smartwaste-dashboard/internal/models"
)

const (
	// DefaultBackoff is the fixed wait between reconnect attempts.
	DefaultBackoff = 5 * time.Second

	EventBinStatus = "bin_status"

	maxMessageSize = 64 * 1024
)

// Event is a typed frame, {"type": ..., "data": ...}.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BinStatusMsg carries a sensor reading.
type BinStatusMsg struct {
	Update models.BinStatusUpdate
}

// EventMsg carries any typed frame that is not a bin status.
type EventMsg struct {
	Event Event
}

// StatusMsg reports the connection state. Err is set when the connection
// dropped or could not be made.
type StatusMsg struct {
	Connected bool
	Err       error
}

type Option func(*Client)

func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

type Client struct {
	url     string
	token   string
	backoff time.Duration
	dialer  *websocket.Dialer
}

func New(wsURL, token string, opts ...Option) *Client {
	c := &Client{
		url:     wsURL,
		token:   token,
		backoff: DefaultBackoff,
		dialer:  websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", fmt.Errorf("invalid feed url: %w", err)
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run delivers messages to send until ctx ends, reconnecting after the
// fixed backoff whenever the connection drops.
func (c *Client) Run(ctx context.Context, send func(tea.Msg)) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}
	for {
		err := c.session(ctx, endpoint, send)
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("⚠️ [FEED] disconnected: %v (retrying in %s)", err, c.backoff)
		send(StatusMsg{Err: err})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.backoff):
		}
	}
}

func (c *Client) session(ctx context.Context, endpoint string, send func(tea.Msg)) error {
	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Printf("🔌 [FEED] connected")
	send(StatusMsg{Connected: true})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		for _, msg := range Decode(frame) {
			send(msg)
		}
	}
}

// Decode splits a frame on newlines (the server batches queued messages)
// and decodes each part. Parts that are not JSON are logged and skipped.
func Decode(frame []byte) []tea.Msg {
	var out []tea.Msg
	for _, part := range bytes.Split(frame, []byte{'\n'}) {
		part = bytes.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		msg, err := decodeOne(part)
		if err != nil {
			log.Printf("⚠️ [FEED] dropping frame: %v", err)
			continue
		}
		out = append(out, msg)
	}
	return out
}

func decodeOne(part []byte) (tea.Msg, error) {
	var ev Event
	if err := json.Unmarshal(part, &ev); err != nil {
		return nil, err
	}
	if ev.Type == "" {
		var update models.BinStatusUpdate
		if err := json.Unmarshal(part, &update); err != nil {
			return nil, err
		}
		if update.BinID == "" {
			return nil, fmt.Errorf("untyped frame without binId")
		}
		return BinStatusMsg{Update: update}, nil
	}
	if ev.Type == EventBinStatus {
		var update models.BinStatusUpdate
		if err := json.Unmarshal(ev.Data, &update); err != nil {
			return nil, fmt.Errorf("bin_status data: %w", err)
		}
		return BinStatusMsg{Update: update}, nil
	}
	return EventMsg{Event: ev}, nil
}

// Alert builds the local "nearly full" notification for a reading at or
// above the threshold.
func Alert(u models.BinStatusUpdate, now time.Time) (models.Notification, bool) {
	level := u.MaxLevel()
	if level < models.FullLevelThreshold {
		return models.Notification{}, false
	}
	return models.Notification{
		ID:            uuid.NewString(),
		Type:          models.NotificationBinFull,
		Title:         "Bin nearly full",
		Message:       fmt.Sprintf("Bin %s nearly full (%d%%)", u.BinID, level),
		Priority:      models.PriorityHigh,
		RecipientType: string(models.RoleAdmin),
		CreatedAt:     now.Format(models.MaintenanceTimeLayout),
		BinID:         u.BinID,
	}, true
}

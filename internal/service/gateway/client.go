package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"EquipWatch/internal/domain/models"
	drepo "EquipWatch/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a SensorStream backed by the plant gateway's
// WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	equipment      []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a new gateway SensorStream.
func New(apiKey, websocketURL string, equipment []string, reconnectDelay, pingInterval time.Duration) drepo.SensorStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		equipment:      equipment,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("gateway connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("gateway: connected")
	return nil
}

// Subscribe subscribes to configured equipment feeds.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("gateway not connected")
	}
	for _, eq := range c.equipment {
		msg := map[string]string{"type": "subscribe", "equipment": eq}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", eq, err)
		}
		log.Printf("gateway: subscribed %s", eq)
	}
	return nil
}

type gwReading struct {
	E string  `json:"e"` // equipment id
	S string  `json:"s"` // sensor id
	V float64 `json:"v"` // value
	T int64   `json:"t"` // ms
}

type gwMessage struct {
	Type string      `json:"type"`
	Data []gwReading `json:"data"`
}

// Read streams SensorReading events and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.SensorReading, <-chan error) {
	readings := make(chan *models.SensorReading, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(readings)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("gateway conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("gateway read: %w", err)
					return
				}
				var m gwMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-reading frames
					continue
				}
				if m.Type != "reading" {
					continue
				}
				for _, d := range m.Data {
					sec := d.T / 1000
					r := &models.SensorReading{EquipmentID: d.E, SensorID: d.S, Value: d.V, Timestamp: sec}
					select {
					case readings <- r:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return readings, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }

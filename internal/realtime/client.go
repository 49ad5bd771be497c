package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

const (
	actionSubscribe   = "subscribe"
	actionUnsubscribe = "unsubscribe"
)

// Client is one websocket subscriber. It only ever receives run progress.
type Client struct {
	id     string
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
}

type incomingMsg struct {
	Action string `json:"action"`
	RunID  string `json:"runId"`
}

// outgoingMsg is the envelope of every frame sent to a client.
type outgoingMsg struct {
	Type    string          `json:"type"`
	RunID   string          `json:"runId"`
	Payload json.RawMessage `json:"payload"`
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufSize),
	}
}

// serve registers the client and starts its pumps.
func (c *Client) serve() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn().Err(err).Str("clientId", c.id).Msg("websocket read failed")
			}
			return
		}
		c.handle(message)
	}
}

// handle applies one subscribe or unsubscribe command. Anything else is
// logged and ignored.
func (c *Client) handle(message []byte) {
	var msg incomingMsg
	if err := json.Unmarshal(message, &msg); err != nil {
		c.hub.logger.Warn().Err(err).Str("clientId", c.id).Msg("malformed websocket command")
		return
	}
	if msg.RunID == "" && (msg.Action == actionSubscribe || msg.Action == actionUnsubscribe) {
		c.hub.logger.Warn().Str("clientId", c.id).Str("action", msg.Action).Msg("websocket command without runId")
		return
	}

	switch msg.Action {
	case actionSubscribe:
		c.hub.subscribe <- subscribeMsg{client: c, runID: msg.RunID}
	case actionUnsubscribe:
		c.hub.subscribe <- subscribeMsg{client: c, runID: msg.RunID, remove: true}
	default:
		c.hub.logger.Warn().Str("clientId", c.id).Str("action", msg.Action).Msg("unknown websocket action")
	}
}

func (c *Client) write(messageType int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				// hub dropped us
				_ = c.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(websocket.TextMessage, payload); err != nil {
				c.hub.logger.Debug().Err(err).Str("clientId", c.id).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package services

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lionbet-games/poker-backend/storage"
	"github.com/lionbet-games/poker-backend/utils/logger"
)

// Client is one websocket subscriber. Outbound messages go through a
// buffered send channel; a full buffer drops the message rather than
// blocking the game actor.
type Client struct {
	userID   uint
	conn     *websocket.Conn
	registry *Registry
	send     chan []byte
	once     sync.Once

	mu    sync.Mutex
	actor *GameActor
}

func newClient(userID uint, conn *websocket.Conn, registry *Registry) *Client {
	return &Client{
		userID:   userID,
		conn:     conn,
		registry: registry,
		send:     make(chan []byte, 32),
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

func (c *Client) setActor(a *GameActor) {
	c.mu.Lock()
	prev := c.actor
	c.actor = a
	c.mu.Unlock()

	if prev != nil && prev != a {
		prev.detach(c.userID, c)
	}
}

func (c *Client) currentActor() *GameActor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.actor
}

func (c *Client) trySend(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("[Client %d] send on closed client: %v", c.userID, r)
		}
	}()
	select {
	case c.send <- msg:
	default:
		logger.Warnf("[Client %d] send buffer full, dropping message", c.userID)
	}
}

func (c *Client) sendEvent(eventType string, data any) {
	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		logger.Errorf("[Client %d] failed to encode %s event: %v", c.userID, eventType, err)
		return
	}
	c.trySend(payload)
}

type clientMessage struct {
	Action  string `json:"action"`
	TableID uint   `json:"table_id"`
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		if a := c.currentActor(); a != nil {
			a.Disconnect(c.userID)
		} else {
			c.Close()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %d] disconnected normally", c.userID)
			} else {
				logger.Infof("[Client %d] read error: %v", c.userID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warnf("[Client %d] invalid message: %v", c.userID, err)
			continue
		}

		switch msg.Action {
		case "join-table":
			if err := c.registry.Join(msg.TableID, c.userID, c); err != nil {
				logger.Infof("[Client %d] join table %d rejected: %v", c.userID, msg.TableID, err)
				c.sendEvent("error", map[string]any{"message": joinErrorMessage(err)})
			}
		default:
			logger.Warnf("[Client %d] unknown action: %q", c.userID, msg.Action)
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Infof("[Client %d] write error: %v", c.userID, err)
			return
		}
	}
}

// joinErrorMessage maps join failures to the user-visible message.
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "Insufficient balance"
	case errors.Is(err, ErrTableFull):
		return "Table full"
	case errors.Is(err, ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, storage.ErrNotFound):
		return "Table or user not found"
	default:
		return "Failed to join table"
	}
}

package realtime

import "github.com/rs/zerolog"

// Hub manages WebSocket clients and routes messages by runID.
type Hub struct {
	clients map[*Client]bool

	// runID -> set of subscribed clients
	subscriptions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscribeMsg
	broadcast  chan broadcastMsg
	done       chan struct{}

	logger zerolog.Logger
}

type subscribeMsg struct {
	client *Client
	runID  string
	remove bool
}

type broadcastMsg struct {
	runID   string
	payload []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscribeMsg),
		broadcast:     make(chan broadcastMsg, 256),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// Stop ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug().Int("clients", len(h.clients)).Msg("client registered")

		case client := <-h.unregister:
			h.drop(client)

		case msg := <-h.subscribe:
			if msg.remove {
				h.unsubscribe(msg.client, msg.runID)
				continue
			}
			if _, ok := h.subscriptions[msg.runID]; !ok {
				h.subscriptions[msg.runID] = make(map[*Client]bool)
			}
			h.subscriptions[msg.runID][msg.client] = true
			h.logger.Debug().Str("runId", msg.runID).Int("subscribers", len(h.subscriptions[msg.runID])).Msg("client subscribed")

		case msg := <-h.broadcast:
			for client := range h.subscriptions[msg.runID] {
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) unsubscribe(client *Client, runID string) {
	subs, ok := h.subscriptions[runID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, runID)
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	for runID := range h.subscriptions {
		h.unsubscribe(client, runID)
	}
	h.logger.Debug().Int("clients", len(h.clients)).Msg("client unregistered")
}

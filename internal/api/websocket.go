package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"hitscan-arena/internal/game"
	"hitscan-arena/internal/weapon"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// StateBroadcastInterval is how often arena:state is pushed
	StateBroadcastInterval = 100 * time.Millisecond

	maxWSMessageBytes = 4096
)

var (
	errUnknownCommand     = errors.New("unknown command")
	errCommandRateLimited = errors.New("command rate exceeded")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if IsAllowedOrigin(origin) {
			return true
		}

		// Log rejected origin for security monitoring
		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn  *websocket.Conn
	ip    string
	audio bool // receives binary PCM frames
}

// wsCommand is a control message sent by a client
type wsCommand struct {
	Type      string       `json:"type"` // "input" or "aim"
	ShooterID string       `json:"shooterId"`
	Token     string       `json:"token,omitempty"`
	Fire      bool         `json:"fire"`
	Reload    bool         `json:"reload"`
	Yaw       float64      `json:"yaw"`
	Pitch     float64      `json:"pitch"`
	Target    *weapon.Vec3 `json:"target,omitempty"`
}

// WebSocketHub manages all WebSocket connections with DoS protection.
// Only Run writes to connections.
type WebSocketHub struct {
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	audio      chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	stopChan   chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	engine EngineInterface
	tokens *ShooterTokens

	conns    *ConnLimiter  // open sockets per IP
	commands *KeyedLimiter // input and aim commands per shooter
}

// NewWebSocketHub creates a new hub with connection limiting. tokens may be
// nil to accept commands for any shooter.
func NewWebSocketHub(engine EngineInterface, tokens *ShooterTokens) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		audio:      make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
		engine:     engine,
		tokens:     tokens,
		conns:      NewConnLimiter(MaxWSConnectionsPerIP),
		commands:   NewKeyedLimiter(DefaultCommandRateConfig),
	}
}

// Run starts the hub. It returns after Stop.
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.conns.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.mu.Lock()
			h.drop(conn)
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			h.writeAll(websocket.TextMessage, message, false)
			IncrementWSMessages("out")

		case frame := <-h.audio:
			h.writeAll(websocket.BinaryMessage, frame, true)
			IncrementWSMessages("audio")
		}
	}
}

// Stop closes every connection and ends Run
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
		h.commands.Stop()
	})
}

// writeAll sends one message to every client, or only audio clients
func (h *WebSocketHub) writeAll(kind int, message []byte, audioOnly bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, client := range h.clients {
		if audioOnly && !client.audio {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(kind, message); err != nil {
			h.drop(conn)
		}
	}
}

// drop removes a client. Caller holds h.mu.
func (h *WebSocketHub) drop(conn *websocket.Conn) {
	if client, ok := h.clients[conn]; ok {
		// Release the connection slot for this IP
		h.conns.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
}

// Broadcast sends an event to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	msg := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	jsonBytes, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// BroadcastAudio queues one PCM frame for clients that asked for audio.
// Safe to call from the engine tick; frames are dropped when the hub lags.
func (h *WebSocketHub) BroadcastAudio(frame []byte) {
	select {
	case h.audio <- frame:
	default:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AudioClientCount returns the number of clients receiving audio
func (h *WebSocketHub) AudioClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, c := range h.clients {
		if c.audio {
			n++
		}
	}
	return n
}

// StartBroadcastLoop pushes arena:state periodically and refreshes gauges
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(StateBroadcastInterval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			snap := h.engine.GetSnapshot()
			UpdateArenaGauges(snap)
			UpdateEventLogStats(h.engine.GetEventLogStats())

			if h.ClientCount() == 0 {
				continue
			}
			h.Broadcast("arena:state", snap)
		}
	}()
}

// Callbacks returns engine callbacks that push discrete events to clients
func (h *WebSocketHub) Callbacks() game.Callbacks {
	return game.Callbacks{
		OnJoin: func(s game.ShooterSnapshot) {
			h.Broadcast("shooter:join", s)
		},
		OnShot: func(s game.ShooterSnapshot, shot weapon.ShotResult) {
			h.Broadcast("shooter:shot", map[string]interface{}{
				"shooterId": s.ID,
				"ammo":      s.Ammo,
				"shot":      shot,
			})
		},
		OnReload: func(s game.ShooterSnapshot, outcome weapon.Outcome) {
			h.Broadcast("shooter:reload", map[string]interface{}{
				"shooterId": s.ID,
				"phase":     outcome.String(),
				"ammo":      s.Ammo,
			})
		},
		OnDestroyed: func(s game.ShooterSnapshot, t game.TargetSnapshot) {
			h.Broadcast("target:destroyed", map[string]interface{}{
				"shooterId": s.ID,
				"target":    t,
			})
		},
	}
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection.
// ?audio=1 subscribes the client to binary PCM frames.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	// Check total connection limit
	if total := h.ClientCount(); total >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	// Check per-IP connection limit
	if !h.conns.Acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.conns.Release(ip) // Release the slot we reserved
		return
	}
	conn.SetReadLimit(maxWSMessageBytes)

	client := &wsClient{
		conn:  conn,
		ip:    ip,
		audio: r.URL.Query().Get("audio") == "1",
	}
	select {
	case h.register <- client:
	case <-h.stopChan:
		conn.Close()
		h.conns.Release(ip)
		return
	}

	// Read control messages
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stopChan:
			}
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			IncrementWSMessages("in")

			var cmd wsCommand
			if err := json.Unmarshal(message, &cmd); err != nil {
				continue
			}
			if err := h.handleCommand(cmd); err != nil {
				log.Printf("📨 WebSocket %s from %s rejected: %v", cmd.Type, ip, err)
			}
		}
	}()
}

// handleCommand applies a client control message to the engine
func (h *WebSocketHub) handleCommand(cmd wsCommand) error {
	if h.tokens != nil {
		if err := h.tokens.Authorize(cmd.Token, cmd.ShooterID); err != nil {
			RecordConnectionRejected("token")
			return err
		}
	}

	if !h.commands.Allow(cmd.ShooterID) {
		RecordConnectionRejected("command_rate")
		return errCommandRateLimited
	}

	switch cmd.Type {
	case "input":
		return h.engine.SetInput(cmd.ShooterID, cmd.Fire, cmd.Reload)
	case "aim":
		if cmd.Target != nil {
			return h.engine.AimAt(cmd.ShooterID, *cmd.Target)
		}
		return h.engine.Aim(cmd.ShooterID, cmd.Yaw, cmd.Pitch)
	default:
		return errUnknownCommand
	}
}

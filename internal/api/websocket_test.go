package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hitscan-arena/internal/game"
	"hitscan-arena/internal/weapon"

	"github.com/gorilla/websocket"
)

func newTestHub(t *testing.T, engine *game.Engine, tokens *ShooterTokens) (*WebSocketHub, string) {
	t.Helper()
	hub := NewWebSocketHub(engine, tokens)
	go hub.Run()
	t.Cleanup(hub.Stop)

	ts := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(ts.Close)
	return hub, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	header := http.Header{"Origin": []string{"http://localhost"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

// TestWebSocketInput tests driving a shooter over the socket
func TestWebSocketInput(t *testing.T) {
	engine := newTestEngine()
	shooter, err := engine.AddShooter("ws", game.ShooterOptions{Position: &weapon.Vec3{X: 50, Z: 50}})
	if err != nil {
		t.Fatalf("AddShooter failed: %v", err)
	}

	hub, url := newTestHub(t, engine, nil)
	conn := dial(t, url)
	waitFor(t, "registration", func() bool { return hub.ClientCount() == 1 })

	err = conn.WriteJSON(wsCommand{Type: "input", ShooterID: shooter.ID, Fire: true})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	waitFor(t, "fire input", func() bool {
		s, _ := engine.GetShooter(shooter.ID)
		return s.FireHeld
	})

	engine.Advance(1)
	s, _ := engine.GetShooter(shooter.ID)
	if s.Ammo != 29 {
		t.Errorf("Expected a shot after the socket input, ammo %d", s.Ammo)
	}

	err = conn.WriteJSON(wsCommand{Type: "aim", ShooterID: shooter.ID, Yaw: 1.25})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	waitFor(t, "aim", func() bool {
		s, _ := engine.GetShooter(shooter.ID)
		return s.Yaw == 1.25
	})
}

// TestWebSocketBroadcast tests text events and audio routing
func TestWebSocketBroadcast(t *testing.T) {
	hub, url := newTestHub(t, newTestEngine(), nil)

	listener := dial(t, url+"?audio=1")
	plain := dial(t, url)
	waitFor(t, "registration", func() bool { return hub.ClientCount() == 2 })
	if hub.AudioClientCount() != 1 {
		t.Fatalf("Expected 1 audio client, got %d", hub.AudioClientCount())
	}

	hub.BroadcastAudio([]byte{1, 2, 3, 4})
	hub.Broadcast("arena:test", map[string]int{"n": 1})

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := listener.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	// Audio and text go through different queues, either may arrive first
	if kind == websocket.BinaryMessage {
		if len(data) != 4 {
			t.Errorf("Expected 4 PCM bytes, got %d", len(data))
		}
	} else if !strings.Contains(string(data), "arena:test") {
		t.Errorf("Unexpected text message %s", data)
	}

	plain.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err = plain.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if kind != websocket.TextMessage || !strings.Contains(string(data), "arena:test") {
		t.Errorf("Plain client should only get text events, got %d %s", kind, data)
	}
}

// TestWebSocketCommandAuth tests token checks on socket commands
func TestWebSocketCommandAuth(t *testing.T) {
	engine := newTestEngine()
	tokens := NewShooterTokensWithKey([]byte("k"))
	hub := NewWebSocketHub(engine, tokens)

	shooter, _ := engine.AddShooter("ws", game.ShooterOptions{})

	if err := hub.handleCommand(wsCommand{Type: "input", ShooterID: shooter.ID, Fire: true}); err != ErrMissingToken {
		t.Errorf("Expected ErrMissingToken, got %v", err)
	}
	if err := hub.handleCommand(wsCommand{Type: "input", ShooterID: shooter.ID, Token: tokens.Issue("other"), Fire: true}); err != ErrWrongShooter {
		t.Errorf("Expected ErrWrongShooter, got %v", err)
	}
	if err := hub.handleCommand(wsCommand{Type: "dance", ShooterID: shooter.ID, Token: tokens.Issue(shooter.ID)}); err != errUnknownCommand {
		t.Errorf("Expected errUnknownCommand, got %v", err)
	}
	if err := hub.handleCommand(wsCommand{Type: "input", ShooterID: shooter.ID, Token: tokens.Issue(shooter.ID), Fire: true}); err != nil {
		t.Errorf("Valid command failed: %v", err)
	}
}

// TestShooterTokenVerify tests signature checks
func TestShooterTokenVerify(t *testing.T) {
	tokens := NewShooterTokens()
	token := tokens.Issue("abc")

	if id, err := tokens.Verify(token); err != nil || id != "abc" {
		t.Errorf("Expected abc, got %q, %v", id, err)
	}
	if _, err := tokens.Verify("%%%"); err != ErrInvalidToken {
		t.Errorf("Garbage should be invalid, got %v", err)
	}
	if _, err := NewShooterTokens().Verify(token); err != ErrInvalidToken {
		t.Error("Token from another key should be invalid")
	}
}

// TestChainCallbacks tests that chained callbacks run in order
func TestChainCallbacks(t *testing.T) {
	var calls []string
	cb := ChainCallbacks(
		game.Callbacks{OnJoin: func(game.ShooterSnapshot) { calls = append(calls, "first") }},
		game.Callbacks{},
		game.Callbacks{
			OnJoin: func(game.ShooterSnapshot) { calls = append(calls, "second") },
			OnTick: func(uint64, time.Duration) { calls = append(calls, "tick") },
		},
	)

	cb.OnJoin(game.ShooterSnapshot{})
	cb.OnTick(1, 0)
	if strings.Join(calls, ",") != "first,second,tick" {
		t.Errorf("Unexpected call order %v", calls)
	}
	if cb.OnShot != nil {
		t.Error("Unset callbacks should stay nil")
	}
}

// TestWebSocketCommandRate tests the per-shooter command limit
func TestWebSocketCommandRate(t *testing.T) {
	engine := newTestEngine()
	hub := NewWebSocketHub(engine, nil)
	defer hub.commands.Stop()
	shooter, _ := engine.AddShooter("spam", game.ShooterOptions{})

	var limited int
	for i := 0; i < DefaultCommandRateConfig.Burst+10; i++ {
		if err := hub.handleCommand(wsCommand{Type: "input", ShooterID: shooter.ID}); err == errCommandRateLimited {
			limited++
		}
	}
	if limited == 0 {
		t.Error("Expected commands beyond the burst to be rate limited")
	}
}

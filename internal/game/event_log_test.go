package game

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestEventLogWritesJSONL tests the async writer output
func TestEventLogWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	el := NewEventLog()
	el.StartWriter(&buf)

	el.EmitSimple(EventTypeShot, 7, "s1", ShotPayload{ShooterID: "s1", Hit: true, EntityID: "t1", AmmoLeft: 29})
	el.EmitSimple(EventTypeReloadStart, 8, "s1", ReloadPayload{ShooterID: "s1", Ammo: 0, MaxAmmo: 30, Duration: 1.5})
	el.Stop()

	scanner := bufio.NewScanner(&buf)
	var events []Event
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("Invalid JSONL line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventTypeShot || events[1].Type != EventTypeReloadStart {
		t.Errorf("Unexpected types: %v, %v", events[0].Type, events[1].Type)
	}
	if events[0].Sequence >= events[1].Sequence {
		t.Error("Sequence should be monotonic")
	}

	var shot ShotPayload
	if err := json.Unmarshal(events[0].Payload, &shot); err != nil {
		t.Fatalf("Payload should be raw JSON: %v", err)
	}
	if shot.EntityID != "t1" || shot.AmmoLeft != 29 {
		t.Errorf("Unexpected payload %+v", shot)
	}

	stats := el.GetStats()
	if stats.Total != 2 || stats.Written != 2 || stats.Running {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

// TestEventLogNotRunning tests emits before Start are rejected
func TestEventLogNotRunning(t *testing.T) {
	el := NewEventLog()
	if el.EmitSimple(EventTypeTick, 1, "", TickPayload{}) {
		t.Error("Emit should fail before Start")
	}
	el.Stop() // Stop without Start must not hang
}

// TestEventLogShooterRateLimit tests per-shooter flooding protection
func TestEventLogShooterRateLimit(t *testing.T) {
	el := NewEventLog()
	el.StartWriter(nil)
	defer el.Stop()

	accepted := 0
	for i := 0; i < MaxEventsPerShooter; i++ {
		if el.EmitSimple(EventTypeShot, uint64(i), "spammer", nil) {
			accepted++
		}
	}

	if accepted >= MaxEventsPerShooter {
		t.Errorf("Burst should be limited, accepted %d", accepted)
	}
	if el.GetDroppedCount() == 0 {
		t.Error("Dropped events should be counted")
	}

	// Another shooter has its own budget
	if !el.EmitSimple(EventTypeShot, 0, "quiet", nil) {
		t.Error("Other shooters should not be limited")
	}
}

// TestEventLogFile tests appending to a file
func TestEventLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	el.EmitSimple(EventTypeTick, 1, "", TickPayload{Now: 0.1})
	el.Stop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"type":"tick"`)) {
		t.Errorf("Expected tick event in file, got %s", data)
	}
}

// TestEventLogSimulatedClock tests that limits follow the injected clock
func TestEventLogSimulatedClock(t *testing.T) {
	el := NewEventLogWithLimits(EventLogLimits{PerSecond: 1000, PerShooter: 10})
	now := time.Unix(0, 0)
	el.SetClock(func() time.Time { return now })
	el.StartWriter(nil)
	defer el.Stop()

	accepted := 0
	for i := 0; i < 5; i++ {
		if el.EmitSimple(EventTypeShot, uint64(i), "s1", nil) {
			accepted++
		}
	}
	// Burst is a tenth of a second: 1 event
	if accepted != 1 {
		t.Fatalf("Expected 1 event before the clock moves, got %d", accepted)
	}

	now = now.Add(time.Second)
	if !el.EmitSimple(EventTypeShot, 6, "s1", nil) {
		t.Error("Budget should refill once simulated time advances")
	}
}

// TestEventLogFlush tests synchronous draining
func TestEventLogFlush(t *testing.T) {
	// No writer goroutine: Flush is the only consumer
	var buf bytes.Buffer
	el := NewEventLog()
	el.out = &buf
	el.running.Store(true)

	for i := 0; i < EventBufferSize/2; i++ {
		el.EmitSimple(EventTypeTick, uint64(i), "", TickPayload{})
	}
	el.Flush()

	stats := el.GetStats()
	if stats.Pending != 0 {
		t.Errorf("Expected nothing pending after Flush, got %d", stats.Pending)
	}
	if lines := bytes.Count(buf.Bytes(), []byte("\n")); lines != EventBufferSize/2 {
		t.Errorf("Expected %d lines, got %d", EventBufferSize/2, lines)
	}
}

// TestShooterBudgetsSweep tests that idle budgets are dropped
func TestShooterBudgetsSweep(t *testing.T) {
	b := newShooterBudgets(10)
	b.allow("a", time.Now())
	b.allow("b", time.Now())
	b.sweep(time.Now().Add(time.Second))
	if n := b.count(); n != 0 {
		t.Errorf("Expected budgets to be swept, %d left", n)
	}
}

package game

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize     = 1024                   // Circular buffer size
	MaxEventsPerSec     = 10000                  // Global rate limit
	MaxEventsPerShooter = 200                    // Per-shooter rate limit per second
	BatchFlushSize      = 64                     // Events per batch write
	BatchFlushInterval  = 100 * time.Millisecond // How often to flush
	BudgetIdleTimeout   = 5 * time.Minute        // Shooter budgets unused this long are dropped
)

// EventLogLimits caps how many events per second the log accepts.
// Seconds are measured on the log's clock, see SetClock.
type EventLogLimits struct {
	PerSecond  float64
	PerShooter float64
}

// DefaultEventLogLimits returns the production limits
func DefaultEventLogLimits() EventLogLimits {
	return EventLogLimits{PerSecond: MaxEventsPerSec, PerShooter: MaxEventsPerShooter}
}

// EventLog is a bounded, rate-limited JSONL event log.
//
// The engine is the only producer and always emits under its own lock; one
// writer goroutine (or Flush) drains the ring buffer.
type EventLog struct {
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic
	readHead  uint64 // atomic
	drainMu   sync.Mutex

	global  *rate.Limiter
	budgets *shooterBudgets
	now     func() time.Time

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	out    io.Writer
	closer io.Closer
	outMu  sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
	writtenCount uint64 // atomic
}

// EventLogStats is a point-in-time view of the log counters.
type EventLogStats struct {
	Total   uint64 `json:"total"`
	Dropped uint64 `json:"dropped"`
	Written uint64 `json:"written"`
	Pending uint64 `json:"pending"`
	Running bool   `json:"running"`
}

// NewEventLog creates an event log with the default limits
func NewEventLog() *EventLog {
	return NewEventLogWithLimits(DefaultEventLogLimits())
}

// NewEventLogWithLimits creates an event log. Bursts are a tenth of a
// second's worth of events.
func NewEventLogWithLimits(limits EventLogLimits) *EventLog {
	return &EventLog{
		global:   rate.NewLimiter(rate.Limit(limits.PerSecond), burstFor(limits.PerSecond)),
		budgets:  newShooterBudgets(limits.PerShooter),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

func burstFor(perSecond float64) int {
	if b := int(perSecond / 10); b > 0 {
		return b
	}
	return 1
}

// SetClock replaces the time source the rate limits are measured on. The
// engine passes its simulated clock so a run driven by Advance is limited
// per simulated second, not per wall-clock second.
func (el *EventLog) SetClock(now func() time.Time) {
	el.now = now
}

// Start opens filePath for append and begins the async writer.
// An empty path keeps events in memory only (useful for stats).
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	if filePath == "" {
		el.StartWriter(nil)
		return nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	el.closer = file
	el.StartWriter(file)
	return nil
}

// StartWriter begins the async writer flushing to w.
func (el *EventLog) StartWriter(w io.Writer) {
	if !el.running.CompareAndSwap(false, true) {
		return
	}

	el.out = w
	el.writerWg.Add(1)
	go el.writerLoop()
}

// Stop drains pending events and closes the output
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		wasRunning := el.running.Swap(false)
		close(el.stopChan)
		if wasRunning {
			el.writerWg.Wait()
		}

		el.outMu.Lock()
		if el.closer != nil {
			el.closer.Close()
		}
		el.outMu.Unlock()
	})
}

// Emit queues an event. It returns false when the log is not running or
// the event was rate limited. A full buffer drops the oldest event.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	now := el.now()
	if !el.global.AllowN(now, 1) || (event.ShooterID != "" && !el.budgets.allow(event.ShooterID, now)) {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)
	if head-tail > EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	el.buffer[(head-1)%EventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple builds and emits an event
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, shooterID string, payload interface{}) bool {
	if !el.running.Load() {
		return false // skip payload encoding
	}
	return el.Emit(NewEvent(eventType, tickNum, shooterID, payload))
}

// Flush synchronously writes everything queued so far. Callers that emit
// faster than real time (Advance) use it to keep the ring from overflowing.
func (el *EventLog) Flush() {
	batch := make([]Event, 0, BatchFlushSize)
	for {
		batch = el.collectBatch(batch[:0])
		if len(batch) == 0 {
			return
		}
		el.flushBatch(batch)
	}
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	flush := time.NewTicker(BatchFlushInterval)
	defer flush.Stop()
	sweep := time.NewTicker(BudgetIdleTimeout)
	defer sweep.Stop()

	batch := make([]Event, 0, BatchFlushSize)
	for {
		select {
		case <-el.stopChan:
			el.Flush()
			return
		case <-flush.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		case now := <-sweep.C:
			el.budgets.sweep(now.Add(-BudgetIdleTimeout))
		}
	}
}

// collectBatch moves up to BatchFlushSize events out of the ring
func (el *EventLog) collectBatch(batch []Event) []Event {
	el.drainMu.Lock()
	defer el.drainMu.Unlock()

	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flushBatch appends events as newline-delimited JSON
func (el *EventLog) flushBatch(batch []Event) {
	el.outMu.Lock()
	defer el.outMu.Unlock()

	if el.out == nil {
		return
	}

	enc := json.NewEncoder(el.out)
	for _, event := range batch {
		if err := enc.Encode(event); err != nil {
			continue
		}
		atomic.AddUint64(&el.writtenCount, 1)
	}
}

// GetStats returns counters for monitoring
func (el *EventLog) GetStats() EventLogStats {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	return EventLogStats{
		Total:   atomic.LoadUint64(&el.totalCount),
		Dropped: atomic.LoadUint64(&el.droppedCount),
		Written: atomic.LoadUint64(&el.writtenCount),
		Pending: head - tail,
		Running: el.running.Load(),
	}
}

// GetDroppedCount returns the number of dropped events
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of events accepted
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}

// shooterBudgets keeps one limiter per shooter so a single trigger-happy
// shooter can't crowd everyone else out of the log.
type shooterBudgets struct {
	mu       sync.Mutex
	perSec   float64
	limiters map[string]*rate.Limiter
	lastUsed map[string]time.Time // wall clock, for sweeping
}

func newShooterBudgets(perSec float64) *shooterBudgets {
	return &shooterBudgets{
		perSec:   perSec,
		limiters: make(map[string]*rate.Limiter),
		lastUsed: make(map[string]time.Time),
	}
}

func (b *shooterBudgets) allow(shooterID string, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.limiters[shooterID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(b.perSec), burstFor(b.perSec))
		b.limiters[shooterID] = l
	}
	b.lastUsed[shooterID] = time.Now()
	return l.AllowN(now, 1)
}

func (b *shooterBudgets) sweep(cutoff time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, t := range b.lastUsed {
		if t.Before(cutoff) {
			delete(b.lastUsed, id)
			delete(b.limiters, id)
		}
	}
}

func (b *shooterBudgets) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.limiters)
}

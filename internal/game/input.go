package game

// InputLatch buffers a shooter's controls between ticks.
//
// Fire is level-triggered: it stays held until released. Reload is
// edge-triggered: a request is consumed by the first tick that reads it,
// so a request made while a reload is already running is dropped.
type InputLatch struct {
	fire   bool
	reload bool
}

// Set updates the latch. reload=false never cancels a pending request.
func (l *InputLatch) Set(fire, reload bool) {
	l.fire = fire
	if reload {
		l.reload = true
	}
}

// FireHeld reports whether the trigger is held.
func (l *InputLatch) FireHeld() bool {
	return l.fire
}

// ReloadRequested returns and clears the pending reload request.
func (l *InputLatch) ReloadRequested() bool {
	r := l.reload
	l.reload = false
	return r
}

// Pending reports whether a reload request is waiting, without consuming it.
func (l *InputLatch) Pending() bool {
	return l.reload
}

package guest

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Reporter receives a recovered panic with the callback it happened in.
type Reporter func(callback string, value any, stack []byte)

// Trap converts panics in guarded entry points into reports. Until Install
// has run, panics propagate and abort the module.
type Trap struct {
	once      sync.Once
	installed atomic.Bool
	report    Reporter
}

// Install sets the reporter. Only the first call has any effect; it returns
// true when this call performed the installation.
func (t *Trap) Install(report Reporter) bool {
	first := false
	t.once.Do(func() {
		t.report = report
		t.installed.Store(true)
		first = true
	})
	return first
}

// Installed reports whether Install has run.
func (t *Trap) Installed() bool {
	return t.installed.Load()
}

// Guard must be deferred directly by every entry point.
func (t *Trap) Guard(callback string) {
	if !t.installed.Load() {
		return
	}
	if v := recover(); v != nil {
		t.report(callback, v, debug.Stack())
	}
}

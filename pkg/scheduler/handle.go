// Package scheduler presses a key into a target page at random intervals.
//
// A Handle belongs to one control. Starting it arms a one-shot timer with a
// delay drawn uniformly from the control's range; every firing dispatches a
// key-down, schedules the matching key-up KeyUpDelay later and re-arms with
// a freshly drawn delay, so consecutive gaps are independent samples rather
// than a fixed period.
//
// Timers fire on runtime goroutines. Each firing checks, under the handle's
// lock, that the handle is still active and that it belongs to the current
// start generation; a firing that loses that check neither presses nor
// re-arms. Stop may therefore be called at any time, including from inside
// a Target's DispatchKeyEvent.
package scheduler

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/entrhq/ftool/pkg/keys"
	"github.com/entrhq/ftool/pkg/press"
)

// KeyUpDelay separates the key-down and key-up of one press.
const KeyUpDelay = 100 * time.Millisecond

// EventType is the kind of synthetic keyboard event.
type EventType string

const (
	KeyDown EventType = "keydown"
	KeyUp   EventType = "keyup"
)

// KeyEvent is one synthetic keyboard event for a Target.
type KeyEvent struct {
	Type EventType
	Key  keys.Descriptor
}

// Target receives synthetic key events. Implementations must not block for
// long; delivery is best effort and the returned error is only logged.
type Target interface {
	DispatchKeyEvent(ev KeyEvent) error
}

// TargetFunc adapts a function to Target.
type TargetFunc func(ev KeyEvent) error

// DispatchKeyEvent calls f(ev).
func (f TargetFunc) DispatchKeyEvent(ev KeyEvent) error {
	return f(ev)
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Clock arms one-shot callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Rand draws uniform integers in [0, n).
type Rand interface {
	IntN(n int) int
}

// Logger is the subset of logging.Logger the scheduler uses.
type Logger interface {
	Debugf(format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

// Option configures a Handle.
type Option func(*Handle)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(h *Handle) { h.clock = c }
}

// WithRand replaces the handle's random source. The source is only used
// under the handle's lock and need not be safe for concurrent use.
func WithRand(r Rand) Option {
	return func(h *Handle) { h.rng = r }
}

// WithLogger sets where swallowed dispatch failures are reported.
func WithLogger(l Logger) Option {
	return func(h *Handle) { h.log = l }
}

// WithName labels the handle in log lines.
func WithName(name string) Option {
	return func(h *Handle) { h.name = name }
}

// Handle runs the auto-press loop of one control.
type Handle struct {
	mu      sync.Mutex
	clock   Clock
	rng     Rand
	log     Logger
	name    string
	active  bool
	gen     uint64
	cfg     press.Config
	target  Target
	timer   Timer
	presses uint64
}

// New returns an inactive handle. Each handle gets its own PCG source
// unless WithRand is given, so handles draw independent sequences.
func New(opts ...Option) *Handle {
	h := &Handle{
		clock: realClock{},
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:   nopLogger{},
		name:  "handle",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// DrawDelay picks the next gap uniformly from the inclusive whole-second
// range of cfg. Swapped bounds are normalized first.
func DrawDelay(cfg press.Config, rng Rand) time.Duration {
	lo, hi := cfg.Bounds()
	secs := lo + rng.IntN(hi-lo+1)
	return time.Duration(secs) * time.Second
}

// Start activates the handle and arms the first press. Nothing is pressed
// immediately. Starting an active handle restarts it with cfg and target.
func (h *Handle) Start(cfg press.Config, target Target) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("scheduler: %s: nil target", h.name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.disarmLocked()
	h.gen++
	h.active = true
	h.cfg = cfg
	h.target = target
	h.armLocked(h.gen)
	return nil
}

// Stop deactivates the handle and disarms its pending press. A key-up that
// is already scheduled for an in-flight press still fires. Stopping an
// inactive handle does nothing.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.active {
		return
	}
	h.active = false
	h.gen++
	h.disarmLocked()
}

// Active reports whether the handle is armed.
func (h *Handle) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Config returns the config of the most recent Start.
func (h *Handle) Config() press.Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg
}

// Presses returns how many key-downs the handle has dispatched.
func (h *Handle) Presses() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presses
}

func (h *Handle) armLocked(gen uint64) {
	delay := DrawDelay(h.cfg, h.rng)
	h.timer = h.clock.AfterFunc(delay, func() { h.fire(gen) })
}

func (h *Handle) disarmLocked() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

func (h *Handle) fire(gen uint64) {
	h.mu.Lock()
	if !h.active || gen != h.gen {
		h.mu.Unlock()
		return
	}
	cfg, target := h.cfg, h.target
	h.presses++
	h.timer = nil
	h.mu.Unlock()

	h.dispatch(target, KeyEvent{Type: KeyDown, Key: cfg.Key})
	h.clock.AfterFunc(KeyUpDelay, func() {
		h.dispatch(target, KeyEvent{Type: KeyUp, Key: cfg.Key})
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active && gen == h.gen {
		h.armLocked(gen)
	}
}

func (h *Handle) dispatch(target Target, ev KeyEvent) {
	if err := target.DispatchKeyEvent(ev); err != nil {
		h.log.Debugf("%s: dropped %s %s: %v", h.name, ev.Type, ev.Key.DisplayKey, err)
	}
}

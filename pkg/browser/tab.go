package browser

import (
	"sync"
	"time"

	"github.com/entrhq/ftool/pkg/scheduler"
)

// keyEventScript is evaluated once per key event with the key fields passed
// as its argument. The first canvas on the page gets focus and the event;
// pages without a canvas get it on document.
const keyEventScript = `({type, key, code, keyCode}) => {
  const canvas = document.querySelector('canvas');
  const target = canvas || document;
  if (canvas) {
    canvas.focus();
  }
  target.dispatchEvent(new KeyboardEvent(type, {
    key: key,
    code: code,
    keyCode: keyCode,
    which: keyCode,
    bubbles: true,
    cancelable: true,
  }));
  return canvas ? 'canvas' : 'document';
}`

// page is the part of playwright.Page a Tab needs.
type page interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
	URL() string
}

// Tab is one open game page. It implements scheduler.Target; key events are
// queued and evaluated by a single worker goroutine so the page is never
// driven concurrently.
type Tab struct {
	Name      string
	CreatedAt time.Time

	page   page
	log    Logger
	events chan scheduler.KeyEvent
	done   chan struct{}
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// held counts key-downs queued without their key-up yet. Each one keeps
	// a queue slot reserved for its key-up.
	held     map[string]int
	reserved int
}

func newTab(name string, p page, log Logger) *Tab {
	t := &Tab{
		Name:      name,
		CreatedAt: time.Now(),
		page:      p,
		log:       log,
		events:    make(chan scheduler.KeyEvent, eventQueueSize),
		done:      make(chan struct{}),
		held:      make(map[string]int),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

var _ scheduler.Target = (*Tab)(nil)

// keyEventArg is the data handed to keyEventScript.
func keyEventArg(ev scheduler.KeyEvent) map[string]interface{} {
	return map[string]interface{}{
		"type":    string(ev.Type),
		"key":     ev.Key.DisplayKey,
		"code":    ev.Key.SymbolicName,
		"keyCode": ev.Key.PlatformCode,
	}
}

// DispatchKeyEvent queues ev for the page without waiting for it to be
// delivered. A key-down is only accepted while there is room for it and
// for its key-up, so the key-up of an accepted key-down is never rejected.
// A key-up whose key-down was rejected is dropped since nothing is held.
func (t *Tab) DispatchKeyEvent(ev scheduler.KeyEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTabClosed
	}

	name := ev.Key.DisplayKey
	switch ev.Type {
	case scheduler.KeyUp:
		if t.held[name] == 0 {
			return nil
		}
		t.held[name]--
		t.reserved--
	default:
		if len(t.events)+t.reserved+2 > cap(t.events) {
			return ErrQueueFull
		}
		if ev.Type == scheduler.KeyDown {
			t.held[name]++
			t.reserved++
		}
	}

	// Sends only happen under t.mu and the worker only drains, so the
	// reservation above guarantees room.
	select {
	case t.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// URL returns the page's current URL.
func (t *Tab) URL() string {
	return t.page.URL()
}

// Closed reports whether the tab stopped accepting events.
func (t *Tab) Closed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Info returns metadata about the tab.
func (t *Tab) Info() TabInfo {
	closed := t.Closed()
	url := ""
	if !closed {
		url = t.URL()
	}
	return TabInfo{Name: t.Name, URL: url, CreatedAt: t.CreatedAt, Closed: closed}
}

func (t *Tab) run() {
	defer t.wg.Done()
	for {
		select {
		case ev := <-t.events:
			t.evaluate(ev)
		case <-t.done:
			return
		}
	}
}

func (t *Tab) evaluate(ev scheduler.KeyEvent) {
	result, err := t.page.Evaluate(keyEventScript, keyEventArg(ev))
	if err != nil {
		t.log.Debugf("tab %s: %s %s failed: %v", t.Name, ev.Type, ev.Key.DisplayKey, err)
		return
	}
	t.log.Debugf("tab %s: %s %s dispatched to %v", t.Name, ev.Type, ev.Key.DisplayKey, result)
}

// stop makes the tab reject new events and tells the worker to exit
// without waiting for it. It is safe to call from Playwright event
// handlers, which must not block on an in-flight Evaluate.
func (t *Tab) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.done)
}

// shutdown stops the tab and waits for the worker to exit. Events still
// queued are dropped.
func (t *Tab) shutdown() {
	t.stop()
	t.wg.Wait()
}

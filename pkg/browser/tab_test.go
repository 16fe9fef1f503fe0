package browser

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/entrhq/ftool/pkg/keys"
	"github.com/entrhq/ftool/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evalCall struct {
	script string
	arg    map[string]interface{}
}

// fakePage records Evaluate calls. When block is set, Evaluate waits on it.
// When entered is set, Evaluate signals it before waiting.
type fakePage struct {
	mu      sync.Mutex
	calls   []evalCall
	url     string
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (p *fakePage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	if p.entered != nil {
		select {
		case p.entered <- struct{}{}:
		default:
		}
	}
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	call := evalCall{script: expression}
	if len(arg) == 1 {
		call.arg, _ = arg[0].(map[string]interface{})
	}
	p.calls = append(p.calls, call)
	if p.err != nil {
		return nil, p.err
	}
	return "canvas", nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) recorded() []evalCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]evalCall, len(p.calls))
	copy(out, p.calls)
	return out
}

func TestTab_DispatchEvaluatesScriptWithKeyArg(t *testing.T) {
	p := &fakePage{url: "https://universe.flyff.com/play"}
	tab := newTab("main", p, nopLogger{})
	defer tab.shutdown()

	f1 := keys.MustLookup("F1")
	require.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: f1}))
	require.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyUp, Key: f1}))

	require.Eventually(t, func() bool { return len(p.recorded()) == 2 }, time.Second, 5*time.Millisecond)

	calls := p.recorded()
	assert.Equal(t, keyEventScript, calls[0].script)
	assert.Equal(t, map[string]interface{}{
		"type":    "keydown",
		"key":     "F1",
		"code":    "F1",
		"keyCode": 112,
	}, calls[0].arg)
	assert.Equal(t, "keyup", calls[1].arg["type"])
}

func TestTab_DigitKeyArg(t *testing.T) {
	arg := keyEventArg(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("7")})
	assert.Equal(t, "7", arg["key"])
	assert.Equal(t, "Digit7", arg["code"])
	assert.Equal(t, 55, arg["keyCode"])
}

func TestTab_ScriptCarriesNoKeyData(t *testing.T) {
	// Key fields travel only in the argument, never spliced into the source.
	for _, d := range keys.All() {
		assert.NotContains(t, keyEventScript, "'"+d.SymbolicName+"'")
		assert.NotContains(t, keyEventScript, `"`+d.SymbolicName+`"`)
	}
	assert.Contains(t, keyEventScript, "({type, key, code, keyCode})")
}

func TestTab_EvaluateErrorIsSwallowed(t *testing.T) {
	p := &fakePage{err: errors.New("execution context was destroyed")}
	tab := newTab("main", p, nopLogger{})
	defer tab.shutdown()

	ev := scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("1")}
	require.NoError(t, tab.DispatchKeyEvent(ev))
	require.NoError(t, tab.DispatchKeyEvent(ev))

	require.Eventually(t, func() bool { return len(p.recorded()) == 2 }, time.Second, 5*time.Millisecond)
	assert.False(t, tab.Closed())
}

func TestTab_DispatchAfterShutdown(t *testing.T) {
	tab := newTab("main", &fakePage{}, nopLogger{})
	tab.shutdown()
	tab.shutdown()

	err := tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("1")})
	assert.ErrorIs(t, err, ErrTabClosed)
	assert.True(t, tab.Info().Closed)
	assert.Empty(t, tab.Info().URL)
}

func TestTab_QueueFull(t *testing.T) {
	p := &fakePage{block: make(chan struct{})}
	tab := newTab("main", p, nopLogger{})

	ev := scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("1")}
	// One event is held by the blocked worker, the rest fill the queue.
	var err error
	for i := 0; i < eventQueueSize+2 && err == nil; i++ {
		err = tab.DispatchKeyEvent(ev)
	}
	assert.ErrorIs(t, err, ErrQueueFull)

	close(p.block)
	tab.shutdown()
}

func TestTab_KeyUpOfAcceptedKeyDownIsNeverRejected(t *testing.T) {
	p := &fakePage{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	tab := newTab("main", p, nopLogger{})

	all := keys.All()
	require.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: all[0]}))
	select {
	case <-p.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never reached Evaluate")
	}

	accepted := []keys.Descriptor{all[0]}
	var rejected keys.Descriptor
	for _, k := range all[1:] {
		err := tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: k})
		if err != nil {
			require.ErrorIs(t, err, ErrQueueFull)
			rejected = k
			break
		}
		accepted = append(accepted, k)
	}
	require.NotEmpty(t, accepted)
	require.NotEmpty(t, rejected.DisplayKey, "queue should fill while the page is stalled")

	// Another key-down stays rejected: the remaining room belongs to key-ups.
	assert.ErrorIs(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: rejected}), ErrQueueFull)

	for _, k := range accepted {
		assert.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyUp, Key: k}), k.DisplayKey)
	}
	// Nothing is held for a rejected key-down, so its key-up is dropped.
	assert.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyUp, Key: rejected}))

	close(p.block)
	require.Eventually(t, func() bool { return len(p.recorded()) == 2*len(accepted) }, time.Second, 5*time.Millisecond)
	tab.shutdown()

	for _, call := range p.recorded() {
		assert.NotEqual(t, rejected.DisplayKey, call.arg["key"])
	}
}

func TestTab_StopDoesNotWaitForWorker(t *testing.T) {
	p := &fakePage{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	tab := newTab("main", p, nopLogger{})

	require.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("1")}))
	select {
	case <-p.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never reached Evaluate")
	}

	tab.stop()
	assert.True(t, tab.Closed())
	assert.ErrorIs(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyUp, Key: keys.MustLookup("1")}), ErrTabClosed)

	close(p.block)
	tab.shutdown()
}

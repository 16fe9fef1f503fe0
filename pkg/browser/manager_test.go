package browser

import (
	"sync"
	"testing"
	"time"

	"github.com/entrhq/ftool/pkg/keys"
	"github.com/entrhq/ftool/pkg/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addFake registers a tab backed by a fake page, bypassing Playwright.
func addFake(t *testing.T, m *Manager, name, url string) *Tab {
	t.Helper()
	return addFakePage(t, m, name, &fakePage{url: url})
}

func addFakePage(t *testing.T, m *Manager, name string, p *fakePage) *Tab {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NoError(t, m.checkNewTabLocked(name))
	return m.addLocked(name, p)
}

func TestManager_OpenTabBeforeInitialize(t *testing.T) {
	m := NewManager(Options{}, nil)
	_, err := m.OpenTab("main", "https://example.com")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestManager_Defaults(t *testing.T) {
	m := NewManager(Options{}, nil)
	assert.Equal(t, DefaultMaxTabs, m.opts.MaxTabs)
	assert.Equal(t, Viewport{Width: 1024, Height: 768}, m.opts.Viewport)
	assert.Equal(t, DefaultTimeout, m.opts.Timeout)

	m = NewManager(Options{MaxTabs: 2, Viewport: Viewport{Width: 800, Height: 600}}, nil)
	assert.Equal(t, 2, m.opts.MaxTabs)
	assert.Equal(t, 800, m.opts.Viewport.Width)
}

func TestManager_TabLookupAndOrder(t *testing.T) {
	m := NewManager(Options{}, nil)
	addFake(t, m, "b", "https://b.test")
	addFake(t, m, "a", "https://a.test")

	tab, err := m.Tab("a")
	require.NoError(t, err)
	assert.Equal(t, "https://a.test", tab.URL())

	_, err = m.Tab("missing")
	assert.ErrorIs(t, err, ErrUnknownTab)

	infos := m.ListTabs()
	require.Len(t, infos, 2)
	assert.Equal(t, "b", infos[0].Name)
	assert.Equal(t, "a", infos[1].Name)
	assert.Equal(t, "https://b.test", infos[0].URL)

	require.NoError(t, m.CloseTab("b"))
	assert.Len(t, m.ListTabs(), 1)
	assert.ErrorIs(t, m.CloseTab("b"), ErrUnknownTab)
}

func TestManager_NewTabChecks(t *testing.T) {
	m := NewManager(Options{MaxTabs: 1}, nil)
	addFake(t, m, "main", "")

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Error(t, m.checkNewTabLocked(""))
	assert.ErrorContains(t, m.checkNewTabLocked("main"), "already exists")
	assert.ErrorContains(t, m.checkNewTabLocked("other"), "maximum number of tabs")
}

func TestManager_PageClosedNotifies(t *testing.T) {
	m := NewManager(Options{}, nil)
	var (
		mu     sync.Mutex
		closed []string
	)
	m.OnTabClosed(func(name string) {
		mu.Lock()
		defer mu.Unlock()
		closed = append(closed, name)
	})

	tab := addFake(t, m, "main", "")
	m.pageClosed("main", tab)
	// A second close event for the same page is ignored.
	m.pageClosed("main", tab)

	assert.Equal(t, []string{"main"}, closed)
	assert.True(t, tab.Closed())
	_, err := m.Tab("main")
	assert.ErrorIs(t, err, ErrUnknownTab)
}

func TestManager_PageClosedAfterCloseTabIsSilent(t *testing.T) {
	m := NewManager(Options{}, nil)
	called := false
	m.OnTabClosed(func(string) { called = true })

	tab := addFake(t, m, "main", "")
	require.NoError(t, m.CloseTab("main"))
	m.pageClosed("main", tab)

	assert.False(t, called)
}

func TestManager_ShutdownClosesTabs(t *testing.T) {
	m := NewManager(Options{}, nil)
	a := addFake(t, m, "a", "")
	b := addFake(t, m, "b", "")

	require.NoError(t, m.Shutdown())
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.Empty(t, m.ListTabs())
}

// The close event arrives on the goroutine that also delivers Evaluate
// replies, so handling it must not wait for an in-flight Evaluate.
func TestManager_PageClosedDuringEvaluate(t *testing.T) {
	m := NewManager(Options{}, nil)
	closedNames := make(chan string, 1)
	m.OnTabClosed(func(name string) { closedNames <- name })

	p := &fakePage{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	tab := addFakePage(t, m, "main", p)
	require.NoError(t, tab.DispatchKeyEvent(scheduler.KeyEvent{Type: scheduler.KeyDown, Key: keys.MustLookup("F1")}))

	select {
	case <-p.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never reached Evaluate")
	}

	returned := make(chan struct{})
	go func() {
		m.pageClosed("main", tab)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		close(p.block)
		t.Fatal("pageClosed waited for the in-flight Evaluate")
	}

	assert.Equal(t, "main", <-closedNames)
	assert.True(t, tab.Closed())
	_, err := m.Tab("main")
	assert.ErrorIs(t, err, ErrUnknownTab)

	// Once the reply arrives the worker exits on its own.
	close(p.block)
	workerDone := make(chan struct{})
	go func() {
		tab.wg.Wait()
		close(workerDone)
	}()
	select {
	case <-workerDone:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after the tab was closed")
	}
}

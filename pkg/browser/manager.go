package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Manager owns the Playwright browser and the named tabs open in it.
// All tabs share one browser context, like tabs of a desktop browser.
type Manager struct {
	mu          sync.RWMutex
	tabs        map[string]*Tab
	pages       map[string]playwright.Page
	order       []string
	playwright  *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	opts        Options
	initialized bool
	log         Logger
	onClosed    func(name string)
}

// NewManager creates a manager. Call Initialize before opening tabs.
func NewManager(opts Options, log Logger) *Manager {
	if log == nil {
		log = nopLogger{}
	}
	return &Manager{
		tabs:  make(map[string]*Tab),
		pages: make(map[string]playwright.Page),
		opts:  opts.withDefaults(),
		log:   log,
	}
}

// OnTabClosed registers fn to be called when the user closes a tab's page
// from the browser window. It is not called for CloseTab or Shutdown.
func (m *Manager) OnTabClosed(fn func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClosed = fn
}

// Initialize installs the Playwright driver and Chromium if needed, then
// launches the browser.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Playwright output would garble the terminal panel.
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	headless := m.opts.Headless
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.opts.Viewport.Width,
			Height: m.opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create context: %w", err)
	}

	m.playwright = pw
	m.browser = browser
	m.context = context
	m.initialized = true
	m.log.Infof("chromium launched (headless=%t, viewport=%dx%d)", headless, m.opts.Viewport.Width, m.opts.Viewport.Height)
	return nil
}

// OpenTab opens a new page, navigates it to url and registers it as name.
func (m *Manager) OpenTab(name, url string) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkNewTabLocked(name); err != nil {
		return nil, err
	}
	if !m.initialized {
		return nil, ErrNotInitialized
	}

	page, err := m.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(m.opts.Timeout)

	waitUntil := playwright.WaitUntilState("domcontentloaded")
	if _, err := page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	tab := m.addLocked(name, page)
	m.pages[name] = page
	page.OnClose(func(playwright.Page) { m.pageClosed(name, tab) })
	m.log.Infof("tab %s opened at %s", name, url)
	return tab, nil
}

func (m *Manager) checkNewTabLocked(name string) error {
	if name == "" {
		return fmt.Errorf("browser: tab name is required")
	}
	if _, exists := m.tabs[name]; exists {
		return fmt.Errorf("browser: tab %q already exists", name)
	}
	if len(m.tabs) >= m.opts.MaxTabs {
		return fmt.Errorf("browser: maximum number of tabs (%d) reached", m.opts.MaxTabs)
	}
	return nil
}

func (m *Manager) addLocked(name string, p page) *Tab {
	tab := newTab(name, p, m.log)
	m.tabs[name] = tab
	m.order = append(m.order, name)
	return tab
}

func (m *Manager) removeLocked(name string) {
	delete(m.tabs, name)
	delete(m.pages, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// pageClosed handles a page closed from outside, e.g. by the user. It runs
// on Playwright's connection goroutine, so it must not wait for the tab's
// worker, which may be waiting on that goroutine for an Evaluate reply.
func (m *Manager) pageClosed(name string, tab *Tab) {
	m.mu.Lock()
	current, ok := m.tabs[name]
	registered := ok && current == tab
	if registered {
		m.removeLocked(name)
	}
	onClosed := m.onClosed
	m.mu.Unlock()

	tab.stop()
	if registered {
		m.log.Infof("tab %s closed by the browser", name)
		if onClosed != nil {
			onClosed(name)
		}
	}
}

// Tab returns the open tab called name.
func (m *Manager) Tab(name string) (*Tab, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tab, ok := m.tabs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	return tab, nil
}

// ListTabs returns information about open tabs in opening order.
func (m *Manager) ListTabs() []TabInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]TabInfo, 0, len(m.order))
	for _, name := range m.order {
		infos = append(infos, m.tabs[name].Info())
	}
	return infos
}

// CloseTab stops the tab's worker and closes its page.
func (m *Manager) CloseTab(name string) error {
	m.mu.Lock()
	tab, ok := m.tabs[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	page := m.pages[name]
	m.removeLocked(name)
	m.mu.Unlock()

	tab.shutdown()
	if page != nil {
		if err := page.Close(); err != nil {
			return fmt.Errorf("failed to close page: %w", err)
		}
	}
	m.log.Infof("tab %s closed", name)
	return nil
}

// Shutdown closes every tab, the browser and Playwright. Page close events
// are delivered while pages close, so the lock is released first.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	tabs := make([]*Tab, 0, len(m.order))
	pages := make([]playwright.Page, 0, len(m.order))
	for _, name := range append([]string(nil), m.order...) {
		tabs = append(tabs, m.tabs[name])
		if page := m.pages[name]; page != nil {
			pages = append(pages, page)
		}
		m.removeLocked(name)
	}
	initialized := m.initialized
	pw, browser, context := m.playwright, m.browser, m.context
	m.initialized = false
	m.mu.Unlock()

	var errs []error
	for _, tab := range tabs {
		tab.shutdown()
	}
	for _, page := range pages {
		if err := page.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if initialized {
		if err := context.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := browser.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %w", errors.Join(errs...))
	}
	return nil
}

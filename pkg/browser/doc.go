// Package browser hosts the game pages that auto-press controls type into.
//
// A Manager launches one Chromium instance through Playwright and opens
// named tabs in a shared browser context. Each Tab implements
// scheduler.Target: DispatchKeyEvent queues the event and a per-tab worker
// evaluates a fixed script in the page with the key fields passed as its
// argument. The script focuses the page's canvas and dispatches a synthetic
// KeyboardEvent to it, falling back to the document when there is no canvas.
// Because events are delivered to the page rather than the operating system,
// a press in one tab never reaches another tab or the window with focus.
//
// Usage:
//
//	m := browser.NewManager(browser.Options{}, log)
//	if err := m.Initialize(); err != nil {
//		return err
//	}
//	defer m.Shutdown()
//
//	tab, err := m.OpenTab("main", "https://universe.flyff.com/play")
//	if err != nil {
//		return err
//	}
//	handle.Start(cfg, tab)
package browser

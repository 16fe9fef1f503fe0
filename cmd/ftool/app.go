package main

import (
	"fmt"

	"github.com/entrhq/ftool/pkg/browser"
	"github.com/entrhq/ftool/pkg/config"
	"github.com/entrhq/ftool/pkg/controller"
	"github.com/entrhq/ftool/pkg/logging"
	"github.com/entrhq/ftool/pkg/scheduler"
)

// hostTab is an open page keys are pressed into.
type hostTab interface {
	scheduler.Target
	URL() string
}

// tabHost opens and closes pages.
type tabHost interface {
	OpenTab(name, url string) (hostTab, error)
	CloseTab(name string) error
	Tab(name string) (hostTab, error)
}

// managerHost adapts browser.Manager to tabHost.
type managerHost struct {
	*browser.Manager
}

func (h managerHost) OpenTab(name, url string) (hostTab, error) {
	tab, err := h.Manager.OpenTab(name, url)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func (h managerHost) Tab(name string) (hostTab, error) {
	tab, err := h.Manager.Tab(name)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

// app ties browser tabs to controller tabs. It implements panel.Host.
type app struct {
	host    tabHost
	ctl     *controller.Controller
	profile *config.Profile
	gameURL string
	log     *logging.Logger
	nextTab int
}

func newApp(host tabHost, ctl *controller.Controller, profile *config.Profile, gameURL string, log *logging.Logger) *app {
	return &app{host: host, ctl: ctl, profile: profile, gameURL: gameURL, log: log}
}

// openStartupTabs opens the profile's tabs, or a single tab on the game URL
// when there is no profile or it lists none.
func (a *app) openStartupTabs(profile *config.Profile) error {
	if profile == nil || len(profile.Tabs) == 0 {
		_, err := a.OpenTab()
		return err
	}
	for _, tp := range profile.Tabs {
		url := tp.URL
		if url == "" {
			url = a.gameURL
		}
		if err := a.open(tp.Name, url); err != nil {
			return err
		}
	}
	return nil
}

// OpenTab opens a tab on the game URL under the next free name.
func (a *app) OpenTab() (string, error) {
	name := a.freeName()
	if err := a.open(name, a.gameURL); err != nil {
		return "", err
	}
	return name, nil
}

func (a *app) open(name, url string) error {
	tab, err := a.host.OpenTab(name, url)
	if err != nil {
		return fmt.Errorf("failed to open tab %s: %w", name, err)
	}
	if err := a.ctl.OpenTab(name, tab); err != nil {
		_ = a.host.CloseTab(name)
		return err
	}
	if err := applyPresets(a.ctl, name, tab.URL(), a.profile, a.log); err != nil {
		_ = a.ctl.CloseTab(name)
		_ = a.host.CloseTab(name)
		return err
	}
	return nil
}

// CloseTab stops the tab's controls and closes its page.
func (a *app) CloseTab(name string) error {
	if err := a.ctl.CloseTab(name); err != nil {
		a.log.Debugf("close tab %s: %v", name, err)
	}
	return a.host.CloseTab(name)
}

// URL returns the current URL of the tab's page.
func (a *app) URL(name string) (string, error) {
	tab, err := a.host.Tab(name)
	if err != nil {
		return "", err
	}
	return tab.URL(), nil
}

// tabClosed is called when the user closes a page in the browser window.
func (a *app) tabClosed(name string) {
	if err := a.ctl.CloseTab(name); err != nil {
		a.log.Debugf("tab %s closed by browser: %v", name, err)
	}
}

func (a *app) freeName() string {
	taken := make(map[string]bool)
	for _, t := range a.ctl.Tabs() {
		taken[t] = true
	}
	for {
		a.nextTab++
		name := fmt.Sprintf("tab%d", a.nextTab)
		if !taken[name] {
			return name
		}
	}
}

// applyPresets adds the controls of every profile preset matching url to
// the controller tab.
func applyPresets(ctl *controller.Controller, tab, url string, profile *config.Profile, log *logging.Logger) error {
	for _, cp := range profile.ControlsFor(url) {
		cfg, err := cp.PressConfig()
		if err != nil {
			return fmt.Errorf("tab %s: %w", tab, err)
		}
		c, err := ctl.AddWith(tab, cfg, cp.Active)
		if err != nil {
			return fmt.Errorf("tab %s: %w", tab, err)
		}
		log.Infof("preset control %s/%d: %s active=%t", tab, c.ID, cfg, cp.Active)
	}
	return nil
}

// Package main provides ftool, a multi-tab auto-presser for browser games.
// It opens the game in Chromium tabs and presses configured keys in each
// tab at random intervals, driven from a terminal control panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/ftool/pkg/browser"
	"github.com/entrhq/ftool/pkg/config"
	"github.com/entrhq/ftool/pkg/controller"
	"github.com/entrhq/ftool/pkg/logging"
	"github.com/entrhq/ftool/pkg/panel"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigFile  string
	ProfileFile string
	URL         string
	Headless    bool
	NoPanel     bool
	LogLevel    string
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("ftool v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		log.Printf("ftool failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to the settings file (default ~/.ftool/config.json)")
	flag.StringVar(&cli.ProfileFile, "profile", "", "YAML profile listing tabs and controls to create at startup")
	flag.StringVar(&cli.URL, "url", "", "Game URL for new tabs (overrides the settings file)")
	flag.BoolVar(&cli.Headless, "headless", false, "Run Chromium without a window")
	flag.BoolVar(&cli.NoPanel, "no-panel", false, "Run the profile without the control panel until interrupted")
	flag.StringVar(&cli.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ftool - randomized auto-presser for browser game tabs\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ftool [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Open one tab and configure controls in the panel\n")
		fmt.Fprintf(os.Stderr, "  ftool\n\n")
		fmt.Fprintf(os.Stderr, "  # Open the tabs and controls of a profile\n")
		fmt.Fprintf(os.Stderr, "  ftool -profile party.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a profile unattended\n")
		fmt.Fprintf(os.Stderr, "  ftool -profile party.yaml -no-panel\n\n")
	}

	flag.Parse()
	return cli
}

// newLogger opens the session log. Without a file, logs go to stderr only
// when the panel is off; the panel owns the terminal otherwise.
func newLogger(noPanel bool) (*logging.Logger, error) {
	var fallback io.Writer = io.Discard
	if noPanel {
		fallback = os.Stderr
	}
	return logging.NewLoggerWithFallback("ftool", fallback)
}

func run(ctx context.Context, cli *CLIConfig) error {
	logger, err := newLogger(cli.NoPanel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ftool: file logging disabled: %v\n", err)
	}
	defer logger.Close()

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	settings, err := config.Load(cli.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var profile *config.Profile
	if cli.ProfileFile != "" {
		profile, err = config.LoadProfile(cli.ProfileFile)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
	}

	bs := settings.Browser.Snapshot()
	if cli.URL != "" {
		bs.GameURL = cli.URL
	}
	if cli.Headless {
		bs.Headless = true
	}

	manager := browser.NewManager(browser.Options{
		Headless: bs.Headless,
		Viewport: browser.Viewport{Width: bs.ViewportWidth, Height: bs.ViewportHeight},
		MaxTabs:  bs.MaxTabs,
	}, logger.Named("browser"))
	if err := manager.Initialize(); err != nil {
		return err
	}

	ctl := controller.New(settings.NewControlConfig, controller.WithLogger(logger.Named("controller")))
	a := newApp(managerHost{manager}, ctl, profile, bs.GameURL, logger)
	manager.OnTabClosed(a.tabClosed)

	defer func() {
		ctl.StopAll()
		if err := manager.Shutdown(); err != nil {
			logger.Errorf("browser shutdown: %v", err)
		}
		logger.Infof("ftool stopped")
	}()

	if err := a.openStartupTabs(profile); err != nil {
		return err
	}
	logger.Infof("ftool v%s started, log session %s", version, logger.SessionID())

	if cli.NoPanel {
		fmt.Fprintf(os.Stderr, "ftool running with %d tab(s), press Ctrl+C to stop\n", len(ctl.Tabs()))
		<-ctx.Done()
		return nil
	}

	return panel.Run(ctx, ctl, a,
		panel.WithLogger(logger.Named("panel")),
		panel.WithTitle(fmt.Sprintf("ftool v%s", version)),
	)
}

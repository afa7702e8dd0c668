// Command pane is the terminal file manager's entry point: it resolves
// configuration and ambient services, then hands control to the Bubble Tea
// program loop in internal/app.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/connorleisz/pane/internal/app"
	"github.com/connorleisz/pane/internal/clipboard"
	"github.com/connorleisz/pane/internal/config"
	"github.com/connorleisz/pane/internal/logging"
	"github.com/connorleisz/pane/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Respect NO_COLOR (https://no-color.org/), same switch the teacher's
	// main.go flipped before building its tea.Program.
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	rootPath, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pane: %v\n", err)
		return 1
	}

	cfg := config.Load(config.DefaultPath())

	level := zapcore.InfoLevel
	if raw := os.Getenv("PANE_LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			fmt.Fprintf(os.Stderr, "pane: invalid PANE_LOG_LEVEL %q: %v\n", raw, err)
		}
	} else if cfg.LogLevel != "" {
		level.UnmarshalText([]byte(cfg.LogLevel))
	}

	logDir := cfg.LogDir
	if logDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			cacheDir = "."
		}
		logDir = filepath.Join(cacheDir, "pane", "log")
	}
	logger, err := logging.New(logging.Options{Dir: logDir, Level: level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pane: failed to open log files in %s: %v\n", logDir, err)
		return 1
	}
	defer logger.Sync()

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}
	clipPath := filepath.Join(cacheDir, "pane", "clipboard.bin")
	clip := clipboard.New(clipboard.Options{
		PersistPath: clipPath,
		Backup:      cfg.ClipboardBackup,
		MaxItems:    cfg.ClipboardMaxItems,
		MaxAge:      time.Duration(cfg.ClipboardMaxAgeDays) * 24 * time.Hour,
	})
	if err := clip.Load(); err != nil {
		logger.Warn("clipboard restore failed", zap.Error(err))
	}

	dbPath := filepath.Join(cacheDir, "pane", "pane.db")
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Warn("favorites/recent store unavailable", zap.Error(err))
		st = nil
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	model := app.New(rootPath, cfg, clip, st)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-sigc
		p.Send(app.SignalMsg{})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pane: %v\n", err)
		return 1
	}
	return 0
}

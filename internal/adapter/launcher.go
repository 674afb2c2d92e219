package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoURL is returned when a record has no trailer reference to open
var ErrNoURL = errors.New("no URL to open")

// Launcher opens trailer and download URLs in an external program
type Launcher struct {
	command string   // configured opener, empty for detection
	args    []string // additional arguments placed before the URL
	logger  *slog.Logger

	// starter runs the process without waiting; swapped in tests
	starter func(name string, args ...string) error
	// lookPath resolves a command in PATH; swapped in tests
	lookPath func(file string) (string, error)
}

// browserCandidates lists openers tried before the system default, per platform
var browserCandidates = map[string][]string{
	"darwin":  {},
	"linux":   {"firefox", "chromium", "google-chrome"},
	"windows": {},
}

// NewLauncher creates a Launcher. An empty command falls back to candidate
// browsers and then the system default handler.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		starter: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		lookPath: exec.LookPath,
	}
}

// Launch opens url in the configured program or the system default
func (l *Launcher) Launch(url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrNoURL
	}

	// Tier 1: user configured a specific opener
	if l.command != "" {
		args := append(append([]string{}, l.args...), url)
		l.logger.Info("launching configured opener", "command", l.command, "args", args)
		if err := l.starter(l.command, args...); err != nil {
			return fmt.Errorf("failed to launch %s: %w", l.command, err)
		}
		return nil
	}

	// Tier 2: candidate browsers in PATH
	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched with detected opener", "opener", name, "url", url)
		return nil
	}

	// Tier 3: system default (open/xdg-open/start)
	return l.launchDefault(url)
}

func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := browserCandidates[runtime.GOOS]
	if !ok {
		candidates = browserCandidates["linux"]
	}

	for _, c := range candidates {
		if _, err := l.lookPath(c); err != nil {
			l.logger.Debug("opener not in PATH", "opener", c)
			continue
		}
		if err := l.starter(c, url); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no candidate openers found")
}

// launchDefault opens the URL using the system default handler
func (l *Launcher) launchDefault(url string) error {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		name, args = "xdg-open", []string{url}
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "url", url)
	return l.starter(name, args...)
}

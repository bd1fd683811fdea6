// Package foreground reports which application the user is working in
package foreground

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/patrickmn/go-cache"

	"github.com/ayoisaiah/upright/internal/apperr"
)

var (
	errParseCmd = &apperr.Error{
		Message: "unable to parse context.cmd option",
	}

	errRunCmd = &apperr.Error{
		Message: "foreground window command failed",
	}
)

// Window describes the foreground window.
type Window struct {
	Title   string
	Process string
}

// Context returns the name used to group activity in this window. The
// process name is preferred over the window title. An empty string means no
// foreground window is available.
func (w Window) Context() string {
	p := strings.TrimSpace(w.Process)
	if p != "" {
		p = filepath.Base(p)
		return strings.TrimSuffix(p, filepath.Ext(p))
	}

	return strings.TrimSpace(w.Title)
}

// Provider reports the current foreground window.
type Provider interface {
	Foreground(ctx context.Context) (Window, error)
}

// Static always reports the same window.
type Static Window

func (s Static) Foreground(_ context.Context) (Window, error) {
	return Window(s), nil
}

// CommandProvider runs a command that prints the foreground window as
// "title<TAB>process" on a single line. A line without a tab is treated as
// a title.
type CommandProvider struct {
	name string
	args []string
}

// NewCommandProvider parses cmdStr into a CommandProvider.
func NewCommandProvider(cmdStr string) (*CommandProvider, error) {
	cmdSlice, err := shellquote.Split(cmdStr)
	if err != nil {
		return nil, errParseCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, errParseCmd.Wrap(exec.ErrNotFound)
	}

	return &CommandProvider{
		name: cmdSlice[0],
		args: cmdSlice[1:],
	}, nil
}

func (p *CommandProvider) Foreground(ctx context.Context) (Window, error) {
	out, err := exec.CommandContext(ctx, p.name, p.args...).Output()
	if err != nil {
		return Window{}, errRunCmd.Wrap(err)
	}

	return ParseWindow(out), nil
}

// ParseWindow parses the first line of a command's output.
func ParseWindow(out []byte) Window {
	line, _, _ := bytes.Cut(out, []byte("\n"))
	line = bytes.TrimRight(line, "\r")

	title, process, found := strings.Cut(string(line), "\t")
	if !found {
		return Window{Title: strings.TrimSpace(title)}
	}

	return Window{
		Title:   strings.TrimSpace(title),
		Process: strings.TrimSpace(process),
	}
}

const cacheKey = "window"

// Cached remembers the last window reported by a provider for a short time
// so that the capture and reminder loops do not query it on every tick.
// Errors are not cached.
type Cached struct {
	provider Provider
	cache    *cache.Cache
}

// NewCached wraps a provider with a cache of the given TTL. A non-positive
// TTL disables caching.
func NewCached(p Provider, ttl time.Duration) *Cached {
	c := &Cached{provider: p}

	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}

	return c
}

func (c *Cached) Foreground(ctx context.Context) (Window, error) {
	if c.cache == nil {
		return c.provider.Foreground(ctx)
	}

	if v, ok := c.cache.Get(cacheKey); ok {
		if w, ok := v.(Window); ok {
			return w, nil
		}
	}

	w, err := c.provider.Foreground(ctx)
	if err != nil {
		return Window{}, err
	}

	c.cache.SetDefault(cacheKey, w)

	return w, nil
}

// Context is a convenience wrapper that returns the context string of the
// current foreground window, or an empty string when none is available.
func Context(ctx context.Context, p Provider) string {
	w, err := p.Foreground(ctx)
	if err != nil {
		return ""
	}

	return w.Context()
}

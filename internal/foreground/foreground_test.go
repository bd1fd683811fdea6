package foreground

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type countingProvider struct {
	err    error
	window Window
	calls  int
}

func (p *countingProvider) Foreground(_ context.Context) (Window, error) {
	p.calls++

	return p.window, p.err
}

func TestWindowContext(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		want   string
	}{
		{"process preferred", Window{Title: "main.go - vim", Process: "nvim"}, "nvim"},
		{"process path and extension", Window{Process: `/usr/bin/code.exe`}, "code"},
		{"title fallback", Window{Title: " Counter-Strike 2 "}, "Counter-Strike 2"},
		{"nothing", Window{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Context(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	cases := []struct {
		in   string
		want Window
	}{
		{"Inbox - Mail\tthunderbird\n", Window{Title: "Inbox - Mail", Process: "thunderbird"}},
		{"Just a title\r\nsecond line", Window{Title: "Just a title"}},
		{"", Window{}},
	}

	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, ParseWindow([]byte(tc.in))); diff != "" {
			t.Errorf("ParseWindow(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestCached(t *testing.T) {
	p := &countingProvider{window: Window{Process: "editor"}}
	c := NewCached(p, time.Minute)

	for range 5 {
		if got := Context(context.Background(), c); got != "editor" {
			t.Fatalf("expected editor, got %q", got)
		}
	}

	if p.calls != 1 {
		t.Fatalf("expected provider to be queried once, got %d calls", p.calls)
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	p := &countingProvider{err: errors.New("no display")}
	c := NewCached(p, time.Minute)

	for range 3 {
		if got := Context(context.Background(), c); got != "" {
			t.Fatalf("expected empty context on error, got %q", got)
		}
	}

	if p.calls != 3 {
		t.Fatalf("expected errors to bypass the cache, got %d calls", p.calls)
	}
}

func TestFailedLookupHasNoContext(t *testing.T) {
	failing := &countingProvider{err: errors.New("no display")}

	if got := Context(context.Background(), failing); got != "" {
		t.Fatalf("expected no context from a failed lookup, got %q", got)
	}

	if got := Context(context.Background(), Static{}); got != "" {
		t.Fatalf("expected no context from an empty window, got %q", got)
	}
}

func TestCommandProvider(t *testing.T) {
	p, err := NewCommandProvider(`printf 'Terminal\tbash\n'`)
	if err != nil {
		t.Fatal(err)
	}

	w, err := p.Foreground(context.Background())
	if err != nil {
		t.Skipf("printf unavailable: %v", err)
	}

	if diff := cmp.Diff(Window{Title: "Terminal", Process: "bash"}, w); diff != "" {
		t.Fatalf("window mismatch (-want +got):\n%s", diff)
	}
}

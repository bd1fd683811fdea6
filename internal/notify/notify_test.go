package notify

import (
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type recorder struct {
	err  error
	sent []string
}

func (r *recorder) Notify(title, message string) error {
	r.sent = append(r.sent, title+": "+message)

	return r.err
}

func TestMulti(t *testing.T) {
	errA := errors.New("a failed")
	a := &recorder{err: errA}
	b := &recorder{}

	err := Multi{a, b}.Notify("Break Reminder", "Take a 5-minute break!")
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to contain %v, got %v", errA, err)
	}

	want := []string{"Break Reminder: Take a 5-minute break!"}

	if diff := cmp.Diff(want, b.sent); diff != "" {
		t.Fatalf("a failing notifier must not stop the rest (-want +got):\n%s", diff)
	}
}

func TestLoggedSwallowsErrors(t *testing.T) {
	l := &Logged{Notifier: &recorder{err: errors.New("no dbus")}}

	if err := l.Notify("Hydration Reminder", "Take a sip of water!"); err != nil {
		t.Fatalf("expected logged notifier to swallow errors, got %v", err)
	}
}

func TestCommandEnvironment(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	c, err := NewCommand(`sh -c 'test "$UPRIGHT_TITLE" = "Break Reminder"'`)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Notify("Break Reminder", "stretch"); err != nil {
		t.Fatalf("expected title to be exported, got %v", err)
	}

	if err := c.Notify("Hydration Reminder", "drink"); err == nil {
		t.Fatal("expected mismatched title to fail the command")
	}
}

func TestNewCommandEmpty(t *testing.T) {
	_, err := NewCommand("   ")
	if !errors.Is(err, errParseCmd) {
		t.Fatalf("expected %v, got %v", errParseCmd, err)
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, _, err := decode("alarm.aiff", io.NopCloser(strings.NewReader("")))
	if !errors.Is(err, errInvalidSoundFormat) {
		t.Fatalf("expected %v, got %v", errInvalidSoundFormat, err)
	}
}

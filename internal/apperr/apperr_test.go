package apperr

import (
	"errors"
	"io"
	"testing"
)

func TestWrap(t *testing.T) {
	base := &Error{Message: "writing record failed"}

	err := base.Wrap(io.ErrUnexpectedEOF)

	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected wrapped error to match its cause")
	}

	if !errors.Is(err, base) {
		t.Errorf("expected wrapped error to match its sentinel")
	}

	want := "writing record failed: unexpected EOF"
	if err.Error() != want {
		t.Errorf("expected error message to be: %q, but got: %q", want, err.Error())
	}
}

func TestFmt(t *testing.T) {
	base := &Error{Message: "%s interval must be between %v and %v"}

	err := base.Fmt("hydration", 1, 2)

	want := "hydration interval must be between 1 and 2"
	if err.Error() != want {
		t.Errorf("expected error message to be: %q, but got: %q", want, err.Error())
	}

	if errors.Is(err, base) {
		t.Errorf("a formatted error should not match the unformatted sentinel")
	}
}

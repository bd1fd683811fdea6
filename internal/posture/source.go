package posture

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/upright/internal/apperr"
)

// maxLineSize bounds a single encoded observation (frames included).
const maxLineSize = 8 << 20

var (
	// ErrSourceClosed is returned by Next once the source has no more
	// observations.
	ErrSourceClosed = errors.New("posture source closed")

	errMalformedObservation = &apperr.Error{
		Message: "malformed observation",
	}

	errStartSource = &apperr.Error{
		Message: "unable to start pose estimator %q",
	}

	errEmptySourceCmd = &apperr.Error{
		Message: "the pose estimator command is empty",
	}
)

// Frame is a greyscale video frame, used for the motion fallback.
type Frame struct {
	Pix    []byte `json:"pix"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Gray returns the frame as an image, or nil if the pixel data does not
// match the dimensions.
func (f *Frame) Gray() *image.Gray {
	if f == nil || f.Width <= 0 || f.Height <= 0 ||
		len(f.Pix) < f.Width*f.Height {
		return nil
	}

	return &image.Gray{
		Pix:    f.Pix,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Observation is what the pose estimator reports for one video frame. Either
// landmarks or precomputed metrics may be present; neither means no body was
// found in the frame.
type Observation struct {
	Timestamp time.Time          `json:"timestamp"`
	Landmarks map[Landmark]Point `json:"landmarks,omitempty"`
	Metrics   *Metrics           `json:"metrics,omitempty"`
	Frame     *Frame             `json:"frame,omitempty"`
}

// Source produces observations at the capture device's natural cadence.
type Source interface {
	// Open acquires the underlying device or process.
	Open() error
	// Next blocks until the next observation is available or ctx is done.
	Next(ctx context.Context) (Observation, error)
	// Close releases the underlying device or process.
	Close() error
}

type line struct {
	err  error
	data []byte
}

// JSONSource reads newline-delimited JSON observations from a reader.
type JSONSource struct {
	r     io.Reader
	lines chan line
	done  chan struct{}
	once  sync.Once
}

// NewJSONSource returns a source that decodes observations from r. If r is
// an io.Closer it is closed by Close.
func NewJSONSource(r io.Reader) *JSONSource {
	return &JSONSource{
		r:    r,
		done: make(chan struct{}),
	}
}

// Open starts reading from the underlying reader.
func (s *JSONSource) Open() error {
	s.lines = make(chan line)

	go s.read()

	return nil
}

func (s *JSONSource) read() {
	defer close(s.lines)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}

		data := make([]byte, len(b))
		copy(data, b)

		select {
		case s.lines <- line{data: data}:
		case <-s.done:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case s.lines <- line{err: err}:
		case <-s.done:
		}
	}
}

// Next returns the next decoded observation.
func (s *JSONSource) Next(ctx context.Context) (Observation, error) {
	var obs Observation

	select {
	case <-ctx.Done():
		return obs, ctx.Err()
	case l, ok := <-s.lines:
		if !ok {
			return obs, ErrSourceClosed
		}

		if l.err != nil {
			return obs, fmt.Errorf("%w: %w", ErrSourceClosed, l.err)
		}

		if err := json.Unmarshal(l.data, &obs); err != nil {
			return obs, errMalformedObservation.Wrap(err)
		}

		return obs, nil
	}
}

// Close stops reading and closes the reader if possible.
func (s *JSONSource) Close() error {
	var err error

	s.once.Do(func() {
		close(s.done)

		if c, ok := s.r.(io.Closer); ok {
			err = c.Close()
		}
	})

	return err
}

// CommandSource runs an external pose estimator and reads the observations
// it writes to stdout.
type CommandSource struct {
	*JSONSource
	cmd     *exec.Cmd
	command string
}

// NewCommandSource returns a source backed by the specified command line.
func NewCommandSource(command string) *CommandSource {
	return &CommandSource{
		command: command,
	}
}

// Open starts the pose estimator process.
func (s *CommandSource) Open() error {
	args, err := shellquote.Split(s.command)
	if err != nil {
		return errStartSource.Fmt(s.command).Wrap(err)
	}

	if len(args) == 0 {
		return errEmptySourceCmd
	}

	s.cmd = exec.Command(args[0], args[1:]...)

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return errStartSource.Fmt(s.command).Wrap(err)
	}

	if err := s.cmd.Start(); err != nil {
		return errStartSource.Fmt(s.command).Wrap(err)
	}

	s.JSONSource = NewJSONSource(stdout)

	return s.JSONSource.Open()
}

// Close terminates the pose estimator and waits for it to exit.
func (s *CommandSource) Close() error {
	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}

	_ = s.JSONSource.Close()

	_ = s.cmd.Process.Kill()

	err := s.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// killed on purpose
		return nil
	}

	return err
}

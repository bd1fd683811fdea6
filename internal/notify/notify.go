// Package notify delivers reminder notifications to the user
package notify

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/upright/internal/apperr"
)

var (
	errInvalidSoundFormat = &apperr.Error{
		Message: "sound file must be in mp3, ogg, flac, or wav format",
	}

	errParseCmd = &apperr.Error{
		Message: "unable to parse reminders.cmd option",
	}
)

// Notifier delivers a notification.
type Notifier interface {
	Notify(title, message string) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(_, _ string) error {
	return nil
}

// Multi delivers a notification to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(title, message string) error {
	var errs []error

	for _, n := range m {
		if err := n.Notify(title, message); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Desktop shows a desktop notification and optionally plays a sound.
type Desktop struct {
	Icon  string
	Sound string
}

func (d *Desktop) Notify(title, message string) error {
	err := beeep.Notify(title, message, d.Icon)
	if err != nil {
		return err
	}

	if d.Sound == "" || d.Sound == "off" {
		return nil
	}

	return playSound(d.Sound)
}

// Command runs a user-supplied command after each notification. The title
// and message are exposed through the UPRIGHT_TITLE and UPRIGHT_MESSAGE
// environment variables.
type Command struct {
	name string
	args []string
}

// NewCommand parses cmdStr into a Command.
func NewCommand(cmdStr string) (*Command, error) {
	cmdSlice, err := shellquote.Split(cmdStr)
	if err != nil {
		return nil, errParseCmd.Wrap(err)
	}

	if len(cmdSlice) == 0 {
		return nil, errParseCmd.Wrap(exec.ErrNotFound)
	}

	return &Command{name: cmdSlice[0], args: cmdSlice[1:]}, nil
}

func (c *Command) Notify(title, message string) error {
	cmd := exec.Command(c.name, c.args...)
	cmd.Env = append(
		os.Environ(),
		"UPRIGHT_TITLE="+title,
		"UPRIGHT_MESSAGE="+message,
	)

	return cmd.Run()
}

// Logged wraps a notifier and logs delivery failures instead of returning
// them.
type Logged struct {
	Notifier Notifier
}

func (l *Logged) Notify(title, message string) error {
	err := l.Notifier.Notify(title, message)
	if err != nil {
		slog.Error(
			"unable to deliver notification",
			slog.String("title", title),
			slog.Any("error", err),
		)
	}

	return nil
}

const sampleRate beep.SampleRate = 44100

var (
	speakerOnce sync.Once
	speakerErr  error
	// playback is serialised so overlapping reminders do not interleave
	playMu sync.Mutex
)

func decode(sound string, r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(sound)) {
	case ".ogg":
		return vorbis.Decode(r)
	case ".mp3":
		return mp3.Decode(r)
	case ".flac":
		return flac.Decode(r)
	case ".wav":
		return wav.Decode(r)
	default:
		_ = r.Close()
		return nil, beep.Format{}, errInvalidSoundFormat
	}
}

// playSound plays the sound file at path and blocks until it has finished.
func playSound(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	stream, format, err := decode(path, f)
	if err != nil {
		return err
	}

	defer stream.Close()

	speakerOnce.Do(func() {
		bufferSize := 10
		speakerErr = speaker.Init(
			sampleRate,
			sampleRate.N(time.Duration(int(time.Second)/bufferSize)),
		)
	})

	if speakerErr != nil {
		return speakerErr
	}

	playMu.Lock()
	defer playMu.Unlock()

	done := make(chan struct{})

	speaker.Play(beep.Seq(
		beep.Resample(4, format.SampleRate, sampleRate, stream),
		beep.Callback(func() {
			close(done)
		}),
	))

	<-done

	return nil
}

package tuitest

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Key sequences understood by bubbletea.
var (
	KeyEnter = []byte{'\r'}
	KeyTab   = []byte{'\t'}
	KeyEsc   = []byte{27}
	KeyCtrlC = []byte{3}
	KeyCtrlU = []byte{21}
	KeyCtrlX = []byte{24}
)

type step struct {
	delay time.Duration
	input []byte
}

// Script is an ordered list of pauses and keystrokes.
type Script struct {
	steps []step
}

// NewScript returns an empty script.
func NewScript() *Script {
	return &Script{}
}

// Wait pauses before the next input.
func (s *Script) Wait(d time.Duration) *Script {
	s.steps = append(s.steps, step{delay: d})
	return s
}

// Type writes text as typed characters.
func (s *Script) Type(text string) *Script {
	s.steps = append(s.steps, step{input: []byte(text)})
	return s
}

// Press writes a key sequence.
func (s *Script) Press(key []byte) *Script {
	s.steps = append(s.steps, step{input: key})
	return s
}

func (s *Script) play(ctx context.Context, w io.Writer) error {
	for _, st := range s.steps {
		if st.delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: script interrupted: %w", ctx.Err())
			case <-time.After(st.delay):
			}
		}
		if len(st.input) == 0 {
			continue
		}
		if _, err := w.Write(st.input); err != nil {
			return fmt.Errorf("tuitest: write input: %w", err)
		}
	}
	return nil
}

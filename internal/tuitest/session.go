// Package tuitest drives the aicuts binary inside a pseudo terminal and
// captures what it renders.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 40
	defaultTimeout = 10 * time.Second
)

// Session configures one scripted run of a terminal program.
type Session struct {
	Command []string
	Dir     string
	Env     []string
	Width   int
	Height  int
	Script  *Script
	Timeout time.Duration
	// AllowedExitCodes lists non-zero exit codes that still count as success.
	AllowedExitCodes []int
}

// Recording is the raw terminal stream and the frames parsed from it.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts the program in a PTY, replays the script and waits for the
// program to exit.
func Run(ctx context.Context, s Session) (*Recording, error) {
	if len(s.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Dir = s.Dir
	cmd.Env = environ(s.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(s.Height), Cols: uint16(s.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	out := &lockedBuffer{}
	copied := make(chan struct{})
	go func() {
		defer close(copied)
		answer := newResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				answer.feed(buf[:n])
				_, _ = out.Write(buf[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	start := time.Now()
	if s.Script != nil {
		if err := s.Script.play(ctx, ptmx); err != nil {
			_ = cmd.Process.Kill()
			waitErr := cmd.Wait()
			_ = ptmx.Close()
			<-copied
			return nil, fmt.Errorf("%w (program exit: %v)", err, waitErr)
		}
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		if err != nil && !allowedExit(err, s.AllowedExitCodes) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w\n%s", err, stripANSI(out.String()))
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-copied

	raw := out.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func allowedExit(err error, codes []int) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	for _, code := range codes {
		if exitErr.ExitCode() == code {
			return true
		}
	}
	return false
}

func environ(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func (b *lockedBuffer) String() string {
	return string(b.Bytes())
}

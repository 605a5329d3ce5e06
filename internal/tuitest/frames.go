package tuitest

import (
	"bytes"
	"io"
	"regexp"
	"strings"
)

// Frame is one screen render with escape sequences removed from Plain.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearScreen = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiPattern  = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern  = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

func parseFrames(raw []byte) []Frame {
	text := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, segment := range clearScreen.Split(text, -1) {
		segment = strings.TrimPrefix(strings.Trim(segment, "\x00"), "\x1b[H")
		plain := stripANSI(segment)
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: trimLines(plain)})
	}
	if len(frames) == 0 && text != "" {
		frames = append(frames, Frame{ANSI: text, Plain: trimLines(stripANSI(text))})
	}
	return frames
}

// FinalFrame returns the last captured frame, or false when none was recorded.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Screen returns the whole stream with escape sequences removed. Bubbletea
// repaints only changed lines, so text may never appear in a single frame.
func (r *Recording) Screen() string {
	if r == nil {
		return ""
	}
	return stripANSI(strings.ReplaceAll(string(r.Raw), "\r", ""))
}

// Contains reports whether text was rendered at any point.
func (r *Recording) Contains(text string) bool {
	return strings.Contains(r.Screen(), text)
}

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("\x0f", "", "\x0e", "").Replace(s)
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// terminal queries bubbletea and termenv send at startup, with the replies a
// dark xterm would give.
var replies = []struct {
	query, reply string
}{
	{"\x1b[6n", "\x1b[1;1R"},
	{"\x1b]10;?\x07", "\x1b]10;rgb:cccc/cccc/cccc\x07"},
	{"\x1b]10;?\x1b\\", "\x1b]10;rgb:cccc/cccc/cccc\x1b\\"},
	{"\x1b]11;?\x07", "\x1b]11;rgb:0000/0000/0000\x07"},
	{"\x1b]11;?\x1b\\", "\x1b]11;rgb:0000/0000/0000\x1b\\"},
}

type responder struct {
	w    io.Writer
	tail []byte
}

func newResponder(w io.Writer) *responder {
	return &responder{w: w}
}

// feed answers any complete query found in the stream so far. A short tail
// is kept so queries split across reads are still seen.
func (r *responder) feed(chunk []byte) {
	r.tail = append(r.tail, chunk...)
	for answered := true; answered; {
		answered = false
		for _, q := range replies {
			idx := bytes.Index(r.tail, []byte(q.query))
			if idx < 0 {
				continue
			}
			r.tail = r.tail[idx+len(q.query):]
			_, _ = io.WriteString(r.w, q.reply)
			answered = true
		}
	}
	if len(r.tail) > 256 {
		r.tail = r.tail[len(r.tail)-64:]
	}
}

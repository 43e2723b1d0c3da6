package casefile

import (
	"bufio"
	"io"
	"strings"
)

const commentMarker = "//"

// maxLineBytes bounds a single physical line. Price-sensitive and learning
// rows are short, but generated cases can carry long names.
const maxLineBytes = 1 << 20

// LineSource yields trimmed lines, skipping blank lines and lines that start
// with "//". It only moves forward.
type LineSource struct {
	sc   *bufio.Scanner
	line int
}

func NewLineSource(r io.Reader) *LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineSource{sc: sc}
}

// Next returns the next logical line, or false at end of input. Check Err
// after Next returns false.
func (s *LineSource) Next() (string, bool) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, commentMarker) {
			continue
		}
		return text, true
	}
	return "", false
}

// Line is the physical line number of the last line returned by Next.
func (s *LineSource) Line() int { return s.line }

func (s *LineSource) Err() error { return s.sc.Err() }

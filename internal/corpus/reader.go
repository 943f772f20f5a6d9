// Package corpus reads the input text lines and writes their ground-truth files.
package corpus

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInputNotFound is returned by Open when the input file does not exist.
	ErrInputNotFound = errors.New("input text file not found")

	// ErrInvalidEncoding is returned by Open when the input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("input text file is not valid UTF-8")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Line is one line of the input, identified by its 0-based position in the
// file. Blank lines keep their index so later lines are never renumbered.
type Line struct {
	Index int
	Raw   string
}

// Text returns the line with leading and trailing whitespace removed.
func (l Line) Text() string {
	return strings.TrimSpace(l.Raw)
}

// Blank reports whether the line is empty after trimming.
func (l Line) Blank() bool {
	return l.Text() == ""
}

// Reader yields the lines of an input file in order. It cannot be rewound.
type Reader struct {
	scanner *bufio.Scanner
	next    int
}

// Open reads the whole file at path and prepares it for iteration.
//
// The file is decoded up front: a missing file returns an error wrapping
// ErrInputNotFound and invalid UTF-8 returns an error wrapping
// ErrInvalidEncoding, in both cases before any line is produced. No other
// encoding is attempted. A leading byte order mark is dropped.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, path)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	s.Split(scanLines)
	return &Reader{scanner: s}, nil
}

// Next returns the next line and true, or a zero Line and false once the
// input is exhausted.
func (r *Reader) Next() (Line, bool) {
	if !r.scanner.Scan() {
		return Line{}, false
	}
	l := Line{Index: r.next, Raw: r.scanner.Text()}
	r.next++
	return l, true
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r\n" and a lone "\r"
// as line terminators. A final line without a terminator is still returned;
// a terminator at end of input does not produce an extra empty line.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': need one more byte to tell "\r\n" from a lone "\r".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

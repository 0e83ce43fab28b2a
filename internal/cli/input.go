package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type line struct {
	err  error
	text string
}

// LineReader hands out trimmed input lines while honoring context
// cancellation. A single goroutine scans the source; a read abandoned on
// cancel leaves its line queued for the next ReadLine.
type LineReader struct {
	src   io.Reader
	lines chan line
	start sync.Once
}

// NewLineReader wraps src.
func NewLineReader(src io.Reader) *LineReader {
	if src == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{src: src, lines: make(chan line)}
}

func (r *LineReader) scan() {
	scanner := bufio.NewScanner(r.src)
	for scanner.Scan() {
		r.lines <- line{text: scanner.Text()}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	r.lines <- line{err: err}
	close(r.lines)
}

// ReadLine returns the next line without surrounding whitespace. io.EOF
// is returned once the source is exhausted.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.scan() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case l, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		return strings.TrimSpace(l.text), nil
	}
}

package controller

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// lineReader scans input on its own goroutine so a prompt can give up when
// its context is cancelled.
type lineReader struct {
	scanner   *bufio.Scanner
	lines     chan string
	done      chan struct{}
	err       error // valid once lines is closed
	exhausted bool
	startOnce sync.Once
	stopOnce  sync.Once
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{
		scanner: bufio.NewScanner(in),
		lines:   make(chan string),
		done:    make(chan struct{}),
	}
}

func (r *lineReader) loop() {
	defer close(r.lines)
	for r.scanner.Scan() {
		select {
		case r.lines <- strings.TrimSpace(r.scanner.Text()):
		case <-r.done:
			return
		}
	}
	r.err = r.scanner.Err()
}

// next returns the next trimmed line. ok is false once input is exhausted or
// ctx is done.
func (r *lineReader) next(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	r.startOnce.Do(func() { go r.loop() })

	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-r.lines:
		if !ok {
			r.exhausted = true
		}
		return line, ok
	}
}

// stop releases the scanning goroutine once it finishes its current read.
func (r *lineReader) stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

// Err reports the scanner error once input has ended.
func (r *lineReader) Err() error {
	if !r.exhausted {
		return nil
	}
	return r.err
}

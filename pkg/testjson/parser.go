package testjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const (
	initialBufSize = 64 * 1024
	maxLineSize    = 1024 * 1024
)

// ParseStream decodes go test -json NDJSON from r synchronously, calling fn
// for every well-formed event. Returns the number of malformed lines skipped.
func ParseStream(r io.Reader, fn ProcessFunc) (int, error) {
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)

	var malformed int
	for scanner.Scan() {
		if !decode(scanner.Bytes(), fn) {
			malformed++
		}
	}
	if err := scanner.Err(); err != nil {
		return malformed, fmt.Errorf("scanning test output: %w", err)
	}
	return malformed, nil
}

// decode reports false for a malformed line. Blank lines are not malformed.
func decode(line []byte, fn ProcessFunc) bool {
	if len(line) == 0 {
		return true
	}
	var event TestEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return false
	}
	fn(event)
	return true
}

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line []byte
	err  error
}

// Stream parses go test -json events line by line and calls fn for each one.
// Stops on EOF or when ctx is cancelled; no event is delivered after
// cancellation is observed. Returns the number of malformed lines skipped and
// any error.
//
// Cancellation: the scanner runs in a background goroutine. On context cancel,
// Stream closes r (if it implements io.Closer) to unblock the scanner. If r
// does not implement io.Closer (e.g. *bufio.Reader), the caller must close the
// underlying reader externally to prevent a goroutine leak.
func Stream(ctx context.Context, r io.Reader, fn ProcessFunc) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBufSize), maxLineSize)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			// Copy bytes; scanner reuses the buffer.
			cp := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- scanResult{line: cp}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	var malformed int
	for {
		select {
		case <-ctx.Done():
			return malformed, cancelled(ctx, r)
		case res, ok := <-lines:
			switch {
			case ctx.Err() != nil:
				return malformed, cancelled(ctx, r)
			case !ok:
				return malformed, nil
			case res.err != nil:
				return malformed, fmt.Errorf("scanning test output: %w", res.err)
			}
			if !decode(res.line, fn) {
				malformed++
			}
		}
	}
}

// cancelled closes r when it can be closed and returns the context error.
func cancelled(ctx context.Context, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		_ = c.Close()
	}
	return ctx.Err()
}

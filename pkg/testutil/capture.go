// Package testutil provides shared helpers for pyupgradecheck tests: stream
// capture, a fake package registry, and site-packages fixtures.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// capture redirects *stream to a pipe while fn runs and returns what was written.
// The pipe is drained concurrently so large outputs cannot block fn.
func capture(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	old := *stream
	*stream = w
	defer func() { *stream = old }()

	fn()

	_ = w.Close()
	out := <-done
	_ = r.Close()
	return out
}

// CaptureStdout returns everything fn writes to os.Stdout.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr returns everything fn writes to os.Stderr.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

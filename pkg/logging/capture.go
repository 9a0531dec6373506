package logging

import (
	"sync"
)

// LineCapture is a thread-safe writer that keeps only the last written line.
type LineCapture struct {
	mu       sync.RWMutex
	lastLine string
}

// GlobalEventCapture holds the most recent trail event line for status displays.
var GlobalEventCapture = &LineCapture{}

// Write implements io.Writer.
func (w *LineCapture) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastLine = string(p)
	return len(p), nil
}

// LastLine returns the most recent line.
func (w *LineCapture) LastLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastLine
}

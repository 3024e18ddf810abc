package trace

import (
	"errors"
	"io"
	"sync"
)

const (
	chromeHeader = "{\"traceEvents\":[\n"
	chromeFooter = "\n]}\n"
)

// StreamTracer writes events to an io.Writer as they arrive.
// Write errors are remembered and returned from Flush; tracing never
// interrupts compilation.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	first  bool // Chrome: no comma before the first element
	closed bool
	err    error
}

// NewStreamTracer creates a StreamTracer. FormatAuto falls back to text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	t := &StreamTracer{w: w, level: level, format: format, first: true}
	if format == FormatChrome {
		t.write([]byte(chromeHeader))
	}
	return t
}

func (t *StreamTracer) write(p []byte) {
	if t.err != nil {
		return
	}
	if _, err := t.w.Write(p); err != nil {
		t.err = err
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)
	if t.format == FormatChrome {
		if !t.first {
			t.write([]byte(",\n"))
		}
		t.first = false
	}
	t.write(data)
}

// Flush flushes a buffered writer and reports the first write error.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil && t.err == nil {
			t.err = err
		}
	}
	return t.err
}

// Close writes the Chrome footer, flushes, and closes the writer when it is
// an io.Closer. Stdout and stderr are never closed.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		t.write([]byte(chromeFooter))
	}
	err := t.flushLocked()
	if c, ok := t.w.(io.Closer); ok && !isStdStream(t.w) {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

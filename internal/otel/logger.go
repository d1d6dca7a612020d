package otel

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// writerChanSize bounds how many journal lines may wait for the writer.
// A request burst (refresh + submit + banners) is a handful of events, so
// filling it means the disk is stuck.
const writerChanSize = 1024

// journalLine is one queued event: the encoded JSONL line for events.jsonl
// and the Event itself for the debug overlay's ring, which wants Dur.
type journalLine struct {
	data []byte
	ev   Event
}

// Logger is the session's event journal. The trends loader, the analysis
// controller, the notification center and the clipboard exporter all write
// to one Logger; `trendscout events` reads what it wrote.
//
// Emit never blocks the Bubble Tea loop: lines are queued and written by a
// single writer goroutine, which also feeds the attached RingBuffer.
// A nil *Logger accepts and discards everything, so components built in
// tests need no journal.
type Logger struct {
	out     io.Writer
	queue   chan journalLine
	stopped chan struct{} // closed when writeLoop returns
	session string

	ringMu sync.Mutex
	ring   *RingBuffer

	closed   atomic.Bool
	dropped  atomic.Uint64
	stopOnce sync.Once
}

// NewLogger starts a journal writing JSONL to out. Close flushes it.
func NewLogger(out io.Writer) *Logger {
	l := &Logger{
		out:     out,
		queue:   make(chan journalLine, writerChanSize),
		stopped: make(chan struct{}),
		session: newSessionID(),
	}
	go l.writeLoop()
	return l
}

// NewNullLogger starts a journal that keeps nothing on disk. Used when the
// event log is disabled or cannot be opened; the debug overlay still works.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func newSessionID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// writeLoop is the only reader of queue and the only writer to out.
// The ring pointer is read under ringMu, then pushed to without holding it.
func (l *Logger) writeLoop() {
	defer close(l.stopped)
	for line := range l.queue {
		if _, err := l.out.Write(line.data); err != nil {
			l.dropped.Add(1)
		}

		l.ringMu.Lock()
		ring := l.ring
		l.ringMu.Unlock()
		if ring != nil {
			ring.Push(line.ev)
		}
	}
}

// Emit stamps e with the time (when unset) and the session id and queues it.
// A full queue or a closed journal counts the event as dropped.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		// Close can win the race between the closed check and the send.
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}

	select {
	case l.queue <- journalLine{data: append(data, '\n'), ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info journals a lifecycle note such as startup.
func (l *Logger) Info(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn journals a degraded-but-running condition, e.g. history unavailable.
func (l *Logger) Warn(kind EventKind, comp string, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error journals err. A nil err is recorded with an empty Err field.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var text string
	if err != nil {
		text = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: text})
}

// SetRingBuffer makes every written event visible to the debug overlay.
func (l *Logger) SetRingBuffer(ring *RingBuffer) {
	if l == nil {
		return
	}
	l.ringMu.Lock()
	l.ring = ring
	l.ringMu.Unlock()
}

// SessionID is the random id stamped on this run's events; filter on it with
// `trendscout events --session`.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Dropped counts events lost to a full queue, an encode or write failure, or
// an Emit after Close.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close writes out everything queued and stops the writer. Safe to call more
// than once; later Emits are dropped.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() {
		l.closed.Store(true)
		close(l.queue)
		<-l.stopped

		if n := l.dropped.Load(); n > 0 {
			fmt.Fprintf(os.Stderr, "trendscout: %d journal events dropped (session %s)\n", n, l.session)
		}
	})
}

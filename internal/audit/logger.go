// Package audit records key operations without blocking the signing path.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation names an audited key operation.
type Operation string

const (
	OpLoadKey   Operation = "LoadKey"
	OpSign      Operation = "Sign"
	OpVerify    Operation = "Verify"
	OpMatch     Operation = "Match"
	OpSize      Operation = "Size"
	OpSchemes   Operation = "Schemes"
	OpUnloadKey Operation = "UnloadKey"
)

// Result is the outcome recorded for an operation.
type Result string

const (
	ResultOK       Result = "OK"
	ResultRejected Result = "REJECTED"
	ResultError    Result = "ERROR"
)

// Entry is one audit record. Metadata never carries key material.
type Entry struct {
	ID          string            `json:"id"`
	Timestamp   time.Time         `json:"timestamp"`
	Operation   Operation         `json:"operation"`
	KeyID       string            `json:"key_id,omitempty"`
	Variant     string            `json:"variant,omitempty"`
	Result      Result            `json:"result"`
	PeerAddress string            `json:"peer_address,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Subscriber receives audit entries via a channel.
type Subscriber struct {
	C  chan Entry
	id string
}

// Filter selects entries in Query. Zero fields match everything.
type Filter struct {
	KeyID     string
	Operation Operation
	Result    Result
	Start     time.Time
	End       time.Time
	Limit     int
}

func (f Filter) match(e Entry) bool {
	switch {
	case f.KeyID != "" && e.KeyID != f.KeyID:
		return false
	case f.Operation != "" && e.Operation != f.Operation:
		return false
	case f.Result != "" && e.Result != f.Result:
		return false
	case !f.Start.IsZero() && e.Timestamp.Before(f.Start):
		return false
	case !f.End.IsZero() && e.Timestamp.After(f.End):
		return false
	}
	return true
}

// Logger is an async audit logger that decouples the critical path from log writes.
type Logger struct {
	entries chan Entry
	out     io.Writer
	log     *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	store       []Entry
	maxStored   int

	closeOnce sync.Once
	done      chan struct{}
}

// NewLogger creates a logger with the given buffer size and output writer.
// At most 16 times bufferSize entries are retained for Query.
func NewLogger(bufferSize int, out io.Writer) *Logger {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	l := &Logger{
		entries:     make(chan Entry, bufferSize),
		out:         out,
		log:         slog.Default().With("component", "audit"),
		subscribers: make(map[string]*Subscriber),
		maxStored:   bufferSize * 16,
		done:        make(chan struct{}),
	}
	go l.processLoop()
	return l
}

// Record sends an entry to the async processing pipeline. It never blocks;
// entries are dropped with a warning when the buffer is full.
func (l *Logger) Record(e Entry) {
	e.ID = uuid.NewString()
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	select {
	case l.entries <- e:
	default:
		l.log.Warn("audit log buffer full, dropping entry", "operation", e.Operation, "key_id", e.KeyID)
	}
}

// Log is shorthand for Record without metadata.
func (l *Logger) Log(op Operation, keyID, variant string, result Result, peerAddr string) {
	l.Record(Entry{
		Operation:   op,
		KeyID:       keyID,
		Variant:     variant,
		Result:      result,
		PeerAddress: peerAddr,
	})
}

// Subscribe creates a new subscriber that receives entries via a buffered channel.
func (l *Logger) Subscribe() *Subscriber {
	l.mu.Lock()
	defer l.mu.Unlock()

	sub := &Subscriber{
		C:  make(chan Entry, 64),
		id: uuid.NewString(),
	}
	l.subscribers[sub.id] = sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (l *Logger) Unsubscribe(sub *Subscriber) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.subscribers[sub.id]; !ok {
		return
	}
	delete(l.subscribers, sub.id)
	close(sub.C)
}

// Query returns stored entries matching f, newest first.
func (l *Logger) Query(f Filter) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var results []Entry
	for i := len(l.store) - 1; i >= 0; i-- {
		e := l.store[i]
		if !f.match(e) {
			continue
		}
		results = append(results, e)
		if f.Limit > 0 && len(results) >= f.Limit {
			break
		}
	}
	return results
}

// Close stops the processing loop and waits for it to drain.
func (l *Logger) Close() {
	l.closeOnce.Do(func() { close(l.entries) })
	<-l.done
}

func (l *Logger) processLoop() {
	defer close(l.done)

	for entry := range l.entries {
		l.mu.Lock()
		l.store = append(l.store, entry)
		if len(l.store) > l.maxStored {
			l.store = l.store[len(l.store)-l.maxStored:]
		}
		l.mu.Unlock()

		if l.out != nil {
			data, err := json.Marshal(entry)
			if err != nil {
				l.log.Error("audit marshal", "error", err)
				continue
			}
			fmt.Fprintf(l.out, "%s\n", data)
		}

		// Fan-out to subscribers (non-blocking)
		l.mu.RLock()
		for _, sub := range l.subscribers {
			select {
			case sub.C <- entry:
			default:
				// subscriber too slow, drop
			}
		}
		l.mu.RUnlock()
	}
}

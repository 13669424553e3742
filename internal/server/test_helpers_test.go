package server

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// recordingSender collects messages per player instead of sending them
type recordingSender struct {
	mu   sync.Mutex
	msgs map[string][]*Message
}

func newRecordingSender() *recordingSender {
	return &recordingSender{msgs: make(map[string][]*Message)}
}

func (r *recordingSender) SendToPlayer(playerID string, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[playerID] = append(r.msgs[playerID], msg)
	return nil
}

// last decodes the most recent message of type typ sent to playerID into v
// and reports whether there was one.
func (r *recordingSender) last(playerID string, typ MessageType, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs[playerID]
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == typ {
			return json.Unmarshal(msgs[i].Data, v) == nil
		}
	}
	return false
}

func (r *recordingSender) count(playerID string, typ MessageType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs[playerID] {
		if m.Type == typ {
			n++
		}
	}
	return n
}

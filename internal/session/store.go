// Package session holds the client-side conversation state: an append-only
// message list, the "thinking" flag (one chat request outstanding), the last
// surfaced error and the backend-assigned session identity. The store is
// event-sourced: the only mutations are the Append*/Clear*/Set* methods
// below, invoked from the single UI event loop, so no locking is needed.
package session

import (
	"time"

	"github.com/google/uuid"

	"finchat/internal/protocol"
	"finchat/internal/structure"
)

// Role tags a message's origin.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Message is one entry in the conversation. Messages are immutable once
// appended; structured segments are derived exactly once, at append time.
type Message struct {
	ID           string
	Role         Role
	Content      string
	Segments     []structure.Segment
	Budget       *structure.BudgetProgress
	Chart        *structure.MonthlySpendingChart
	Transactions []protocol.Transaction
	Timestamp    time.Time
	ErrorCode    string
	LLMStats     *protocol.LLMStats
}

// Identity is the backend-assigned session token plus the stats snapshot
// delivered on connect. It never survives a disconnect.
type Identity struct {
	SessionID string
	Stats     protocol.Stats
}

// Store is the conversation state for one UI session.
type Store struct {
	structurer *structure.Structurer

	messages []Message
	thinking bool
	lastErr  string
	identity *Identity
}

// NewStore creates an empty store. The structurer is used to derive segments
// for assistant messages as they are appended; nil gets a default one.
func NewStore(st *structure.Structurer) *Store {
	if st == nil {
		st = structure.New()
	}
	return &Store{structurer: st}
}

// AppendUser appends a user message and marks a chat request outstanding.
func (s *Store) AppendUser(content string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	s.thinking = true
	return msg
}

// AppendAssistant structures the response text, appends the assistant
// message and clears "thinking". A response that arrives after a cancel is
// appended the same way; it must not resurrect the flag, which this
// unconditional clear guarantees.
func (s *Store) AppendAssistant(resp protocol.ChatResponse) Message {
	res := s.structurer.Structure(resp.Message, resp.Transactions)

	ts, err := time.Parse(time.RFC3339, resp.Timestamp)
	if err != nil {
		if ts, err = time.Parse("2006-01-02T15:04:05", resp.Timestamp); err != nil {
			ts = time.Now()
		}
	}

	msg := Message{
		ID:           uuid.NewString(),
		Role:         RoleAssistant,
		Content:      resp.Message,
		Segments:     res.Segments,
		Budget:       res.Budget,
		Chart:        res.Chart,
		Transactions: resp.Transactions,
		Timestamp:    ts,
		LLMStats:     resp.LLMStats,
	}
	s.messages = append(s.messages, msg)
	s.thinking = false
	return msg
}

// AppendError appends an error-role message, clears "thinking" and records
// the error as the last surfaced one.
func (s *Store) AppendError(code, message string) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      RoleError,
		Content:   message,
		ErrorCode: code,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, msg)
	s.thinking = false
	s.lastErr = message
	return msg
}

// ClearThinking drops the outstanding-request flag without touching the
// message list. Used on the optimistic cancel path and on the backend's
// cancelled acknowledgment.
func (s *Store) ClearThinking() {
	s.thinking = false
}

// ClearError forgets the last surfaced error.
func (s *Store) ClearError() {
	s.lastErr = ""
}

// ClearAll wipes the local history, the flag and the last error. Identity is
// untouched; the connection is still live after a clear.
func (s *Store) ClearAll() {
	s.messages = nil
	s.thinking = false
	s.lastErr = ""
}

// SetIdentity records the backend-assigned identity from a connected frame.
func (s *Store) SetIdentity(id Identity) {
	s.identity = &id
}

// ClearIdentity drops the identity on any disconnect.
func (s *Store) ClearIdentity() {
	s.identity = nil
}

// SetError records a locally surfaced error without appending a message.
func (s *Store) SetError(message string) {
	s.lastErr = message
}

// Messages returns the conversation in insertion order. The returned slice
// is a copy; the stored messages stay immutable.
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages.
func (s *Store) Len() int { return len(s.messages) }

// Thinking reports whether a chat response is outstanding.
func (s *Store) Thinking() bool { return s.thinking }

// LastError returns the last surfaced error message, "" when none.
func (s *Store) LastError() string { return s.lastErr }

// Identity returns the current session identity, nil when disconnected.
func (s *Store) Identity() *Identity { return s.identity }

// Package protocol implements the wire codec for the chat WebSocket session.
// Every message exchanged with the backend is a single JSON frame of the form
// {"type": string, "payload"?: object}. Outgoing frames are built by the
// Encode* functions; incoming frames are decoded into a closed set of variants
// by Decode. Anything outside that set is a protocol error the caller is
// expected to log and discard, never to treat as fatal.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Frame type tags, shared by both directions.
const (
	TypeChat   = "chat"
	TypeClear  = "clear"
	TypeCancel = "cancel"
	TypePing   = "ping"

	TypeConnected    = "connected"
	TypeChatResponse = "chat_response"
	TypeError        = "error"
	TypeCancelled    = "cancelled"
	TypePong         = "pong"
	TypeCleared      = "cleared"
)

// ErrUnknownFrameType is returned by Decode when the frame's type tag is not
// in the closed incoming set.
var ErrUnknownFrameType = errors.New("unknown frame type")

// frame is the outer envelope for every wire message.
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Transaction is one transaction record as the backend sends it, attached to
// chat responses. Amount is an unsigned magnitude; the direction lives in
// TransactionType ("debit" or "credit"). An empty Category means
// uncategorized.
type Transaction struct {
	Date            string  `json:"date"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category,omitempty"`
}

// Stats is the aggregate snapshot sent with the connected frame.
type Stats struct {
	TotalTransactions int `json:"total_transactions"`
	TotalStatements   int `json:"total_statements"`
}

// LLMStats carries optional generation metrics attached to a chat response.
type LLMStats struct {
	Model           string `json:"model,omitempty"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
	TotalDuration   int64  `json:"total_duration,omitempty"` // nanoseconds
}

// Incoming is the closed set of server-to-client frame variants.
type Incoming interface {
	incoming()
}

// Connected acknowledges a fresh connection and carries the session identity.
type Connected struct {
	SessionID string `json:"session_id"`
	Stats     Stats  `json:"stats"`
}

// ChatResponse is the backend's answer to a chat request.
type ChatResponse struct {
	Message      string        `json:"message"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Timestamp    string        `json:"timestamp"`
	LLMStats     *LLMStats     `json:"llm_stats,omitempty"`
}

// BackendError is an explicit error frame with a machine-readable code.
type BackendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Cancelled acknowledges a cancel request.
type Cancelled struct{}

// Pong answers a heartbeat ping.
type Pong struct{}

// Cleared acknowledges a clear request.
type Cleared struct{}

func (Connected) incoming()    {}
func (ChatResponse) incoming() {}
func (BackendError) incoming() {}
func (Cancelled) incoming()    {}
func (Pong) incoming()         {}
func (Cleared) incoming()      {}

type chatPayload struct {
	Message string `json:"message"`
}

// EncodeChat builds a chat request frame.
func EncodeChat(message string) ([]byte, error) {
	payload, err := json.Marshal(chatPayload{Message: message})
	if err != nil {
		return nil, fmt.Errorf("encode chat payload: %w", err)
	}
	return json.Marshal(frame{Type: TypeChat, Payload: payload})
}

// EncodeClear builds a clear request frame.
func EncodeClear() ([]byte, error) {
	return json.Marshal(frame{Type: TypeClear})
}

// EncodeCancel builds a cancel request frame.
func EncodeCancel() ([]byte, error) {
	return json.Marshal(frame{Type: TypeCancel})
}

// EncodePing builds a heartbeat frame.
func EncodePing() ([]byte, error) {
	return json.Marshal(frame{Type: TypePing})
}

// Decode parses one incoming frame. A malformed envelope or payload returns a
// wrapped error; a type tag outside the closed set returns
// ErrUnknownFrameType. Either way the session must treat the frame as
// discardable, not as a failure of the connection.
func Decode(data []byte) (Incoming, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame envelope: %w", err)
	}

	switch f.Type {
	case TypeConnected:
		var v Connected
		if err := json.Unmarshal(f.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode connected payload: %w", err)
		}
		return v, nil

	case TypeChatResponse:
		var v ChatResponse
		if err := json.Unmarshal(f.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode chat_response payload: %w", err)
		}
		return v, nil

	case TypeError:
		var v BackendError
		if err := json.Unmarshal(f.Payload, &v); err != nil {
			return nil, fmt.Errorf("decode error payload: %w", err)
		}
		return v, nil

	case TypeCancelled:
		return Cancelled{}, nil

	case TypePong:
		return Pong{}, nil

	case TypeCleared:
		return Cleared{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrameType, f.Type)
	}
}

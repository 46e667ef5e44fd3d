package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finchat/internal/protocol"
	"finchat/internal/structure"
)

func TestAppendUserSetsThinking(t *testing.T) {
	s := NewStore(nil)

	msg := s.AppendUser("how much did I spend on fuel?")

	assert.True(t, s.Thinking())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, RoleUser, msg.Role)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestAppendAssistantClearsThinkingAndStructures(t *testing.T) {
	s := NewStore(nil)
	s.AppendUser("budget status?")

	msg := s.AppendAssistant(protocol.ChatResponse{
		Message:   "Your budget is R8,000.00 and you've spent R8,480.00 (106% used)",
		Timestamp: "2025-09-07T10:00:00",
	})

	assert.False(t, s.Thinking())
	assert.Equal(t, RoleAssistant, msg.Role)
	require.NotNil(t, msg.Budget)
	assert.Equal(t, 106, msg.Budget.Percent)
	require.Len(t, msg.Segments, 1)
	_, ok := msg.Segments[0].(structure.Text)
	assert.True(t, ok)
	assert.Equal(t, 2025, msg.Timestamp.Year())
}

func TestAppendErrorSetsLastError(t *testing.T) {
	s := NewStore(nil)
	s.AppendUser("anything")

	msg := s.AppendError("CHAT_ERROR", "model unavailable")

	assert.False(t, s.Thinking())
	assert.Equal(t, RoleError, msg.Role)
	assert.Equal(t, "CHAT_ERROR", msg.ErrorCode)
	assert.Equal(t, "model unavailable", s.LastError())

	s.ClearError()
	assert.Empty(t, s.LastError())
}

func TestCancelRace(t *testing.T) {
	// The client clears "thinking" optimistically on cancel; a late
	// chat_response still appends normally and must not resurrect the flag.
	s := NewStore(nil)
	s.AppendUser("long question")
	s.ClearThinking()
	assert.False(t, s.Thinking())

	s.AppendAssistant(protocol.ChatResponse{Message: "late answer"})

	assert.False(t, s.Thinking())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, RoleAssistant, s.Messages()[1].Role)
}

func TestClearAllKeepsIdentity(t *testing.T) {
	s := NewStore(nil)
	s.SetIdentity(Identity{SessionID: "abc", Stats: protocol.Stats{TotalTransactions: 500}})
	s.AppendUser("q")
	s.AppendError("X", "boom")

	s.ClearAll()

	assert.Zero(t, s.Len())
	assert.False(t, s.Thinking())
	assert.Empty(t, s.LastError())
	require.NotNil(t, s.Identity())
	assert.Equal(t, "abc", s.Identity().SessionID)
}

func TestIdentityLifecycle(t *testing.T) {
	s := NewStore(nil)
	assert.Nil(t, s.Identity())

	s.SetIdentity(Identity{SessionID: "abc"})
	require.NotNil(t, s.Identity())

	s.ClearIdentity()
	assert.Nil(t, s.Identity())
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.AppendUser("one")

	msgs := s.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "one", s.Messages()[0].Content)
}

func TestAssistantTimestampFallback(t *testing.T) {
	s := NewStore(nil)
	msg := s.AppendAssistant(protocol.ChatResponse{Message: "hi", Timestamp: "garbage"})
	assert.False(t, msg.Timestamp.IsZero(), "unparseable timestamps fall back to now")
}

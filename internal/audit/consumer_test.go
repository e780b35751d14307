package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxgate/voxgate/internal/events"
)

func TestGenerationEventDeserialization(t *testing.T) {
	event := events.GenerationEvent{
		RequestID:    uuid.New().String(),
		CredentialID: "cred-1a2b3c4d",
		VoiceID:      "Kore",
		Outcome:      events.OutcomeDenied,
		DenyReason:   "minute_limit_reached",
		TextChars:    42,
		Timestamp:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded events.GenerationEvent
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, event.RequestID, decoded.RequestID)
	assert.Equal(t, "cred-1a2b3c4d", decoded.CredentialID)
	assert.Equal(t, events.OutcomeDenied, decoded.Outcome)
	assert.Equal(t, "minute_limit_reached", decoded.DenyReason)
	assert.Equal(t, 42, decoded.TextChars)
}

func TestEntryFromEvent(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	event := events.GenerationEvent{
		RequestID:    "req-1",
		CredentialID: "cred-1a2b3c4d",
		VoiceID:      "Puck",
		Outcome:      events.OutcomeFailed,
		FailureClass: "quota_exceeded",
		Detail:       "upstream returned 429",
		TextChars:    10,
		Timestamp:    ts,
	}

	entry := entryFromEvent(event)

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "cred-1a2b3c4d", entry.CredentialID)
	assert.Equal(t, "Puck", entry.VoiceID)
	assert.Equal(t, events.OutcomeFailed, entry.Outcome)
	assert.Equal(t, "quota_exceeded", entry.FailureClass)
	assert.Equal(t, "upstream returned 429", entry.Detail)
	assert.Equal(t, 10, entry.TextChars)
	assert.Equal(t, ts, entry.CreatedAt)
}

func TestEntryFromEvent_ZeroTimestamp(t *testing.T) {
	entry := entryFromEvent(events.GenerationEvent{Outcome: events.OutcomeSuccess})
	assert.False(t, entry.CreatedAt.IsZero())
}

package events

import "time"

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// StreamEvents holds every generation and rotation event.
const StreamEvents = "VOXGATE_EVENTS"

// Subject constants.
const (
	SubjectGeneration = "voxgate.events.generation"
	SubjectRotation   = "voxgate.events.rotation"
)

// Generation outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeFailed  = "failed"
)

// GenerationEvent is published for every generation attempt, whatever the
// outcome. Text content is never included, only its length.
type GenerationEvent struct {
	RequestID    string    `json:"request_id"`
	CredentialID string    `json:"credential_id"`
	VoiceID      string    `json:"voice_id"`
	Outcome      string    `json:"outcome"`
	DenyReason   string    `json:"deny_reason,omitempty"`
	FailureClass string    `json:"failure_class,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	TextChars    int       `json:"text_chars"`
	Cached       bool      `json:"cached"`
	Timestamp    time.Time `json:"timestamp"`
}

// RotationEvent is published when the operator rotates the active credential.
type RotationEvent struct {
	OldCredentialID string    `json:"old_credential_id"`
	NewCredentialID string    `json:"new_credential_id"`
	Timestamp       time.Time `json:"timestamp"`
}

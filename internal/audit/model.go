package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry matches the generation_audit table schema.
type Entry struct {
	ID           uuid.UUID `json:"id"`
	RequestID    string    `json:"request_id"`
	CredentialID string    `json:"credential_id"`
	VoiceID      string    `json:"voice_id,omitempty"`
	Outcome      string    `json:"outcome"`
	DenyReason   string    `json:"deny_reason,omitempty"`
	FailureClass string    `json:"failure_class,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	TextChars    int       `json:"text_chars"`
	Cached       bool      `json:"cached"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListParams holds pagination and filtering parameters for audit queries.
type ListParams struct {
	Outcome      string
	CredentialID string
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

// DefaultListParams returns sensible defaults.
func DefaultListParams() ListParams {
	return ListParams{
		Page:     1,
		PageSize: 20,
	}
}

package tts

import (
	"context"
	"fmt"
)

// Artifact is one playable piece of synthesized audio.
type Artifact struct {
	Audio    []byte `json:"-"`
	MIMEType string `json:"mime_type"`
	VoiceID  string `json:"voice_id"`
	// Chars is the length of the synthesized text, kept for event reporting.
	Chars int `json:"chars"`
}

// Synthesizer turns text into audio via the upstream provider.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (*Artifact, error)
}

// CredentialSource supplies the active provider credential at call time, so a
// rotation takes effect without rebuilding the client.
type CredentialSource interface {
	Active() (id, key string)
}

// ProviderError is a non-2xx response from the synthesis provider.
type ProviderError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("provider error %d (%s)", e.StatusCode, e.Status)
}

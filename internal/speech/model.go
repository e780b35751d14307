package speech

import (
	"github.com/voxgate/voxgate/internal/quota"
	"github.com/voxgate/voxgate/internal/tts"
)

// State is the orchestrator's generation state. Exactly one is current at
// any time.
type State int32

const (
	StateIdle State = iota
	StateGenerating
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DenyReason explains an admission denial.
type DenyReason string

const (
	DenyEmptyInput  DenyReason = "empty_input"
	DenyDailyLimit  DenyReason = "daily_limit_reached"
	DenyMinuteLimit DenyReason = "minute_limit_reached"
)

// Message returns the user-facing text for the denial.
func (r DenyReason) Message() string {
	switch r {
	case DenyEmptyInput:
		return "text is empty"
	case DenyDailyLimit:
		return "daily request limit reached; wait for the next day or rotate the credential"
	case DenyMinuteLimit:
		return "per-minute request limit reached; wait for the window to reset"
	default:
		return string(r)
	}
}

// Verdict is the admission guard's decision.
type Verdict struct {
	Allowed bool
	Reason  DenyReason
}

// Limits carries the provider-imposed ceilings the guard checks against.
type Limits struct {
	Daily  int
	Minute int
}

// FailureClass is the coarse taxonomy for upstream synthesis failures.
type FailureClass string

const (
	FailureQuotaExceeded FailureClass = "quota_exceeded"
	FailureOther         FailureClass = "other"
)

// Failure is a classified upstream error. Advisory only: it never suppresses
// future requests by itself, that is the admission guard's job.
type Failure struct {
	Class   FailureClass `json:"class"`
	Message string       `json:"message"`
}

// GenerateRequest is the single mutating entry point's payload. It lives for
// one orchestration cycle.
type GenerateRequest struct {
	Text    string `json:"text" validate:"required"`
	VoiceID string `json:"voice_id" validate:"required"`
	// TargetDurationMinutes is advisory; the playback shaper downstream
	// consumes it, this core only validates and echoes it.
	TargetDurationMinutes float64 `json:"target_duration_minutes,omitempty" validate:"omitempty,gt=0"`
}

// GenerateResult is a completed generation.
type GenerateResult struct {
	Artifact *tts.Artifact
	Cached   bool
}

// Snapshot is the orchestrator's observable state, recomputed from owned
// state on every call.
type Snapshot struct {
	State   string        `json:"state"`
	Result  *tts.Artifact `json:"result,omitempty"`
	Failure *Failure      `json:"failure,omitempty"`
	Quota   quota.Status  `json:"quota"`
}

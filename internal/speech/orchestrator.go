package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/voxgate/voxgate/internal/events"
	"github.com/voxgate/voxgate/internal/metrics"
	"github.com/voxgate/voxgate/internal/quota"
	"github.com/voxgate/voxgate/internal/tts"
)

// ErrGenerationInFlight is returned when Generate is called while a previous
// cycle is still outstanding. The call is a no-op.
var ErrGenerationInFlight = errors.New("a generation is already in flight")

// DenialError is an admission denial. No network call was made and no quota
// was consumed.
type DenialError struct {
	Reason DenyReason
}

func (e *DenialError) Error() string {
	return e.Reason.Message()
}

// UpstreamError is a classified failure from the synthesis provider. No
// local quota was consumed; the provider would not have counted the failed
// call either.
type UpstreamError struct {
	Failure Failure
}

func (e *UpstreamError) Error() string {
	return e.Failure.Message
}

// DailyStore is the persisted per-credential daily counter.
type DailyStore interface {
	Get(ctx context.Context, credentialID, dateKey string) (int, error)
	Increment(ctx context.Context, credentialID, dateKey string) error
	Reset(ctx context.Context, credentialID, dateKey string) error
}

// MinuteTracker is the in-memory fixed-origin minute window.
type MinuteTracker interface {
	Increment()
	Reset()
	Snapshot() quota.Window
}

// CredentialRing exposes the active provider credential ID and rotation.
type CredentialRing interface {
	ActiveID() string
	Rotate() string
}

// EventPublisher receives generation and rotation events. Publishing is
// fire-and-forget; failures are logged and never affect the caller.
type EventPublisher interface {
	PublishGeneration(ctx context.Context, event events.GenerationEvent) error
	PublishRotation(ctx context.Context, event events.RotationEvent) error
}

// ArtifactCache stores synthesized audio keyed by (voice, text). A hit
// bypasses the provider call and therefore consumes no quota.
type ArtifactCache interface {
	Get(ctx context.Context, voiceID, text string) (*tts.Artifact, error)
	Put(ctx context.Context, voiceID, text string, art *tts.Artifact) error
}

// Deps wires an Orchestrator. Cache and Events may be nil; Now defaults to
// time.Now and exists so tests can pin the date key.
type Deps struct {
	Daily  DailyStore
	Minute MinuteTracker
	Synth  tts.Synthesizer
	Creds  CredentialRing
	Cache  ArtifactCache
	Events EventPublisher
	Limits Limits
	Now    func() time.Time
}

// Orchestrator drives one generation cycle at a time through admission,
// synthesis, classification, and counting. It exclusively owns the
// generation state and the current result.
type Orchestrator struct {
	deps Deps

	// inFlight is the reentrancy guard: a second Generate while one cycle is
	// outstanding fails the compare-and-set and is ignored. Correctness does
	// not depend on any caller disabling its trigger.
	inFlight atomic.Bool
	state    atomic.Int32

	mu      sync.Mutex
	result  *tts.Artifact
	failure *Failure
}

// NewOrchestrator creates an Orchestrator in the idle state.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

// State returns the current generation state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Generate runs one full generation cycle. Counters move only after a
// confirmed successful synthesis; denials and failures consume nothing.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrGenerationInFlight
	}
	defer o.inFlight.Store(false)

	credID := o.deps.Creds.ActiveID()
	dateKey := quota.DateKey(o.deps.Now())

	dailyCount, err := o.deps.Daily.Get(ctx, credID, dateKey)
	if err != nil {
		// Fail open on storage errors to not block the user; the provider
		// still enforces the real limit.
		slog.Warn("daily usage lookup failed, admitting request", "error", err)
		dailyCount = 0
	}
	minuteCount := o.deps.Minute.Snapshot().Count

	verdict := CheckAdmission(req.Text, dailyCount, minuteCount, o.deps.Limits)
	if !verdict.Allowed {
		// Denial leaves the state machine untouched: no transition through
		// generating, no quota consumed, no network call.
		metrics.AdmissionDenialsTotal.WithLabelValues(string(verdict.Reason)).Inc()
		metrics.GenerationsTotal.WithLabelValues(events.OutcomeDenied).Inc()
		o.publishGeneration(ctx, events.GenerationEvent{
			RequestID:    uuid.New().String(),
			CredentialID: credID,
			VoiceID:      req.VoiceID,
			Outcome:      events.OutcomeDenied,
			DenyReason:   string(verdict.Reason),
			TextChars:    len(req.Text),
			Timestamp:    o.deps.Now().UTC(),
		})
		return nil, &DenialError{Reason: verdict.Reason}
	}

	if o.deps.Cache != nil {
		if art, err := o.deps.Cache.Get(ctx, req.VoiceID, req.Text); err != nil {
			slog.Warn("audio cache lookup failed", "error", err)
		} else if art != nil {
			metrics.AudioCacheHitsTotal.WithLabelValues("hit").Inc()
			metrics.GenerationsTotal.WithLabelValues(events.OutcomeSuccess).Inc()
			o.setOutcome(StateSuccess, art, nil)
			o.publishGeneration(ctx, events.GenerationEvent{
				RequestID:    uuid.New().String(),
				CredentialID: credID,
				VoiceID:      req.VoiceID,
				Outcome:      events.OutcomeSuccess,
				TextChars:    len(req.Text),
				Cached:       true,
				Timestamp:    o.deps.Now().UTC(),
			})
			return &GenerateResult{Artifact: art, Cached: true}, nil
		}
		metrics.AudioCacheHitsTotal.WithLabelValues("miss").Inc()
	}

	o.setOutcome(StateGenerating, nil, nil)

	start := time.Now()
	art, err := o.deps.Synth.Synthesize(ctx, req.Text, req.VoiceID)
	metrics.SynthesisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		failure := Classify(err)
		o.setOutcome(StateError, nil, &failure)
		metrics.GenerationsTotal.WithLabelValues(events.OutcomeFailed).Inc()
		slog.Warn("synthesis failed",
			"credential", credID,
			"voice", req.VoiceID,
			"class", failure.Class,
			"error", err,
		)
		o.publishGeneration(ctx, events.GenerationEvent{
			RequestID:    uuid.New().String(),
			CredentialID: credID,
			VoiceID:      req.VoiceID,
			Outcome:      events.OutcomeFailed,
			FailureClass: string(failure.Class),
			Detail:       failure.Message,
			TextChars:    len(req.Text),
			Timestamp:    o.deps.Now().UTC(),
		})
		return nil, &UpstreamError{Failure: failure}
	}

	o.setOutcome(StateSuccess, art, nil)

	// Increment strictly after confirmed success. The date key is resolved
	// again in case the call straddled local midnight.
	o.deps.Minute.Increment()
	if err := o.deps.Daily.Increment(ctx, credID, quota.DateKey(o.deps.Now())); err != nil {
		slog.Error("recording daily usage", "error", err, "credential", credID)
	}

	if o.deps.Cache != nil {
		if err := o.deps.Cache.Put(ctx, req.VoiceID, req.Text, art); err != nil {
			slog.Warn("audio cache store failed", "error", err)
		}
	}

	metrics.GenerationsTotal.WithLabelValues(events.OutcomeSuccess).Inc()
	o.publishGeneration(ctx, events.GenerationEvent{
		RequestID:    uuid.New().String(),
		CredentialID: credID,
		VoiceID:      req.VoiceID,
		Outcome:      events.OutcomeSuccess,
		TextChars:    len(req.Text),
		Timestamp:    o.deps.Now().UTC(),
	})

	return &GenerateResult{Artifact: art}, nil
}

// RotateCredential advances to the next provider credential and resets all
// quota state in one explicit operation: orchestrator back to idle, minute
// window to full capacity, and the new credential's persisted record for the
// current date cleared. The new credential carries its own independent quota.
func (o *Orchestrator) RotateCredential(ctx context.Context) (string, error) {
	oldID := o.deps.Creds.ActiveID()
	newID := o.deps.Creds.Rotate()

	o.deps.Minute.Reset()
	if err := o.deps.Daily.Reset(ctx, newID, quota.DateKey(o.deps.Now())); err != nil {
		return "", fmt.Errorf("clearing daily usage for rotated credential: %w", err)
	}

	o.setOutcome(StateIdle, nil, nil)

	slog.Info("credential rotated", "old", oldID, "new", newID)
	if o.deps.Events != nil {
		if err := o.deps.Events.PublishRotation(ctx, events.RotationEvent{
			OldCredentialID: oldID,
			NewCredentialID: newID,
			Timestamp:       o.deps.Now().UTC(),
		}); err != nil {
			slog.Error("publishing rotation event", "error", err)
		}
	}

	return newID, nil
}

// Status recomputes the observable snapshot from owned state.
func (o *Orchestrator) Status(ctx context.Context) (*Snapshot, error) {
	credID := o.deps.Creds.ActiveID()
	dateKey := quota.DateKey(o.deps.Now())

	dailyCount, err := o.deps.Daily.Get(ctx, credID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("fetching daily usage: %w", err)
	}
	window := o.deps.Minute.Snapshot()

	o.mu.Lock()
	result := o.result
	failure := o.failure
	o.mu.Unlock()

	return &Snapshot{
		State:   o.State().String(),
		Result:  result,
		Failure: failure,
		Quota: quota.Status{
			DailyUsed:         dailyCount,
			DailyLimit:        o.deps.Limits.Daily,
			DailyRemaining:    o.deps.Limits.Daily - dailyCount,
			DailyPercentUsed:  100 * float64(dailyCount) / float64(o.deps.Limits.Daily),
			MinuteUsed:        window.Count,
			MinuteLimit:       o.deps.Limits.Minute,
			MinuteRemaining:   o.deps.Limits.Minute - window.Count,
			SecondsUntilReset: window.SecondsUntilReset,
		},
	}, nil
}

func (o *Orchestrator) setOutcome(s State, result *tts.Artifact, failure *Failure) {
	o.mu.Lock()
	o.result = result
	o.failure = failure
	o.mu.Unlock()
	o.state.Store(int32(s))
}

func (o *Orchestrator) publishGeneration(ctx context.Context, event events.GenerationEvent) {
	if o.deps.Events == nil {
		return
	}
	if err := o.deps.Events.PublishGeneration(ctx, event); err != nil {
		slog.Error("publishing generation event", "error", err)
	}
}

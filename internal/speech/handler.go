package speech

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/voxgate/voxgate/internal/api"
	"github.com/voxgate/voxgate/internal/voices"
)

type Handler struct {
	orch     *Orchestrator
	validate *validator.Validate
}

func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{
		orch:     orch,
		validate: validator.New(),
	}
}

// Generate synthesizes speech for the request body and returns the playable
// audio. Quota denials map to 429, upstream failures to 502.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	// Unknown voices are a usage error caught before admission; they never
	// reach the quota counters.
	if _, ok := voices.Lookup(req.VoiceID); !ok {
		api.HandleError(w, api.NewBadRequestError(fmt.Sprintf("unknown voice %q", req.VoiceID)))
		return
	}

	result, err := h.orch.Generate(r.Context(), req)
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.Artifact.MIMEType)
	if result.Cached {
		w.Header().Set("X-Voxgate-Cache", "hit")
	} else {
		w.Header().Set("X-Voxgate-Cache", "miss")
	}
	if req.TargetDurationMinutes > 0 {
		// Echoed for the downstream playback shaper; not consumed here.
		w.Header().Set("X-Voxgate-Target-Minutes", strconv.FormatFloat(req.TargetDurationMinutes, 'f', -1, 64))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifact.Audio); err != nil {
		slog.Warn("writing audio response", "error", err)
	}
}

func (h *Handler) writeGenerateError(w http.ResponseWriter, err error) {
	var denial *DenialError
	if errors.As(err, &denial) {
		if denial.Reason == DenyEmptyInput {
			api.HandleError(w, api.NewBadRequestError(denial.Error()))
			return
		}
		api.HandleError(w, api.NewQuotaDeniedError(denial.Error()))
		return
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		api.HandleError(w, api.NewUpstreamError(fmt.Sprintf("%s: %s", upstream.Failure.Class, upstream.Failure.Message)))
		return
	}

	if errors.Is(err, ErrGenerationInFlight) {
		api.HandleError(w, api.ErrGenerationBusy)
		return
	}

	slog.Error("generation failed", "error", err)
	api.HandleError(w, api.ErrInternalServer)
}

// GetStatus returns the orchestrator snapshot.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.orch.Status(r.Context())
	if err != nil {
		slog.Error("fetching status", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, snap)
}

// GetQuota returns just the usage-vs-limits view.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	snap, err := h.orch.Status(r.Context())
	if err != nil {
		slog.Error("fetching quota", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, snap.Quota)
}

// ListVoices returns the static voice catalog.
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, voices.All())
}

// RotateCredential switches to the next provider credential and resets all
// quota state.
func (h *Handler) RotateCredential(w http.ResponseWriter, r *http.Request) {
	newID, err := h.orch.RotateCredential(r.Context())
	if err != nil {
		slog.Error("rotating credential", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	api.JSON(w, http.StatusOK, map[string]string{"credential_id": newID})
}

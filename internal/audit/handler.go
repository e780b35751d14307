package audit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/voxgate/voxgate/internal/api"
)

// Handler provides HTTP handlers for audit endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new audit Handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List returns paginated generation audit entries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	entries, total, err := h.repo.List(r.Context(), params)
	if err != nil {
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONPaginated(w, http.StatusOK, entries, total, params.Page, params.PageSize)
}

func parseListParams(r *http.Request) ListParams {
	params := DefaultListParams()

	if o := r.URL.Query().Get("outcome"); o != "" {
		params.Outcome = o
	}
	if c := r.URL.Query().Get("credential_id"); c != "" {
		params.CredentialID = c
	}
	if p := r.URL.Query().Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil && page > 0 {
			params.Page = page
		}
	}
	if ps := r.URL.Query().Get("page_size"); ps != "" {
		if pageSize, err := strconv.Atoi(ps); err == nil && pageSize > 0 && pageSize <= 100 {
			params.PageSize = pageSize
		}
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			params.From = &t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			params.To = &t
		}
	}

	return params
}

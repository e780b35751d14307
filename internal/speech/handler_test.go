package speech

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxgate/voxgate/internal/tts"
)

func postSpeech(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/speech", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	return rec
}

func TestHandler_GenerateSuccess(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	rec := postSpeech(h, `{"text":"hello","voice_id":"Kore","target_duration_minutes":2.5}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "audio/wav", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Voxgate-Cache"))
	assert.Equal(t, "2.5", rec.Header().Get("X-Voxgate-Target-Minutes"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHandler_GenerateInvalidJSON(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	rec := postSpeech(h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GenerateMissingFields(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	rec := postSpeech(h, `{"text":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSpeech(h, `{"voice_id":"Kore"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GenerateUnknownVoice(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	rec := postSpeech(h, `{"text":"hello","voice_id":"NotAVoice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.synth.callCount())
}

func TestHandler_GenerateBlankTextIsBadRequest(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	rec := postSpeech(h, `{"text":"   ","voice_id":"Kore"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GenerateQuotaDenied(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)
	for i := 0; i < 15; i++ {
		f.minute.Increment()
	}

	rec := postSpeech(h, `{"text":"hello","voice_id":"Kore"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "minute")
}

func TestHandler_GenerateUpstreamFailure(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)
	f.synth.err = &tts.ProviderError{StatusCode: 500, Status: "INTERNAL", Message: "backend error"}

	rec := postSpeech(h, `{"text":"hello","voice_id":"Kore"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandler_GenerateBusy(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)
	f.synth.block = make(chan struct{})
	f.synth.started = make(chan struct{})

	done := make(chan struct{})
	go func() {
		postSpeech(h, `{"text":"hello","voice_id":"Kore"}`)
		close(done)
	}()
	<-f.synth.started

	rec := postSpeech(h, `{"text":"again","voice_id":"Kore"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(f.synth.block)
	<-done
}

func TestHandler_GetQuota(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quota", nil)
	rec := httptest.NewRecorder()
	h.GetQuota(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"daily_limit":1500`)
	assert.Contains(t, rec.Body.String(), `"minute_limit":15`)
}

func TestHandler_RotateCredential(t *testing.T) {
	f := newFixture(t)
	h := NewHandler(f.orch)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/credentials/rotate", nil)
	rec := httptest.NewRecorder()
	h.RotateCredential(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cred-b")
}

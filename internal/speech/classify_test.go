package speech

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxgate/voxgate/internal/tts"
)

func TestClassify_Provider429(t *testing.T) {
	err := &tts.ProviderError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "Quota exceeded"}
	f := Classify(err)
	assert.Equal(t, FailureQuotaExceeded, f.Class)
	assert.Contains(t, f.Message, "Quota exceeded")
}

func TestClassify_ProviderResourceExhaustedWithout429(t *testing.T) {
	// Some proxies rewrite the HTTP status; the status string still marks it.
	err := &tts.ProviderError{StatusCode: 503, Status: "RESOURCE_EXHAUSTED", Message: "exhausted"}
	f := Classify(err)
	assert.Equal(t, FailureQuotaExceeded, f.Class)
}

func TestClassify_ProviderServerError(t *testing.T) {
	err := &tts.ProviderError{StatusCode: 500, Status: "INTERNAL", Message: "backend error"}
	f := Classify(err)
	assert.Equal(t, FailureOther, f.Class)
	assert.Contains(t, f.Message, "backend error")
}

func TestClassify_WrappedProviderError(t *testing.T) {
	inner := &tts.ProviderError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
	err := errors.Join(errors.New("calling provider"), inner)
	f := Classify(err)
	assert.Equal(t, FailureQuotaExceeded, f.Class)
}

func TestClassify_TextualQuotaMarkers(t *testing.T) {
	for _, msg := range []string{
		"upstream returned 429",
		"RESOURCE_EXHAUSTED: try later",
		"resource exhausted",
		"daily quota used up",
	} {
		f := Classify(errors.New(msg))
		assert.Equal(t, FailureQuotaExceeded, f.Class, "message %q", msg)
	}
}

func TestClassify_PlainError(t *testing.T) {
	f := Classify(errors.New("connection refused"))
	assert.Equal(t, FailureOther, f.Class)
	assert.Equal(t, "connection refused", f.Message)
}

func TestClassify_PreservesOriginalMessage(t *testing.T) {
	f := Classify(errors.New("tls: handshake failure"))
	assert.Equal(t, "tls: handshake failure", f.Message)
}

package speech

import (
	"errors"
	"net/http"
	"strings"

	"github.com/voxgate/voxgate/internal/tts"
)

const fallbackFailureMessage = "synthesis failed"

// Classify maps an upstream synthesis error into the failure taxonomy. A
// provider rejection carrying HTTP 429 or a resource-exhausted marker is a
// quota failure; everything else passes through with its original message.
func Classify(err error) Failure {
	var perr *tts.ProviderError
	if errors.As(err, &perr) {
		if perr.StatusCode == http.StatusTooManyRequests || isQuotaMarker(perr.Status) {
			return Failure{Class: FailureQuotaExceeded, Message: messageOf(err)}
		}
		return Failure{Class: FailureOther, Message: messageOf(err)}
	}

	if isQuotaMarker(messageOf(err)) {
		return Failure{Class: FailureQuotaExceeded, Message: messageOf(err)}
	}
	return Failure{Class: FailureOther, Message: messageOf(err)}
}

func isQuotaMarker(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "429") ||
		strings.Contains(lower, "resource_exhausted") ||
		strings.Contains(lower, "resource exhausted") ||
		strings.Contains(lower, "quota")
}

func messageOf(err error) string {
	if err == nil || strings.TrimSpace(err.Error()) == "" {
		return fallbackFailureMessage
	}
	return err.Error()
}

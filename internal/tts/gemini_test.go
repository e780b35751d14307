package tts

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxgate/voxgate/internal/config"
)

type staticCreds struct{ id, key string }

func (s staticCreds) Active() (string, string) { return s.id, s.key }

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(config.TTSConfig{
		Endpoint: srv.URL,
		Model:    "gemini-2.5-flash-preview-tts",
		Timeout:  5 * time.Second,
	}, staticCreds{id: "key-1", key: "test-api-key"})
}

func audioResponse(pcm []byte, rate int) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;codec=pcm;rate=%d","data":"%s"}}]}}]}`,
		rate, base64.StdEncoding.EncodeToString(pcm))
}

func TestGeminiClient_Synthesize(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash-preview-tts:generateContent")
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, audioResponse(pcm, 24000))
	})

	art, err := client.Synthesize(context.Background(), "hello world", "Kore")
	require.NoError(t, err)

	assert.Equal(t, "audio/wav", art.MIMEType)
	assert.Equal(t, "Kore", art.VoiceID)
	assert.Equal(t, len("hello world"), art.Chars)

	// WAV header + payload
	require.Len(t, art.Audio, 44+len(pcm))
	assert.Equal(t, "RIFF", string(art.Audio[:4]))
	assert.Equal(t, "WAVE", string(art.Audio[8:12]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(art.Audio[24:28]))
	assert.Equal(t, pcm, art.Audio[44:])
}

func TestGeminiClient_SampleRateFromMIME(t *testing.T) {
	pcm := []byte{0x00, 0x00}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, audioResponse(pcm, 44100))
	})

	art, err := client.Synthesize(context.Background(), "hi", "Puck")
	require.NoError(t, err)
	assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(art.Audio[24:28]))
}

func TestGeminiClient_QuotaError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"code":429,"message":"Quota exceeded for requests per day","status":"RESOURCE_EXHAUSTED"}}`)
	})

	_, err := client.Synthesize(context.Background(), "hello", "Kore")
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Equal(t, "RESOURCE_EXHAUSTED", perr.Status)
	assert.Contains(t, perr.Message, "Quota exceeded")
}

func TestGeminiClient_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream proxy error")
	})

	_, err := client.Synthesize(context.Background(), "hello", "Kore")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	assert.Equal(t, "upstream proxy error", perr.Message)
}

func TestGeminiClient_NoAudioInResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"no audio here"}]}}]}`)
	})

	_, err := client.Synthesize(context.Background(), "hello", "Kore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio")
}

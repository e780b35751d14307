package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/voxgate/voxgate/internal/config"
)

const defaultSampleRate = 24000

// GeminiClient synthesizes speech through the Gemini generateContent API
// with audio response modality.
type GeminiClient struct {
	endpoint string
	model    string
	creds    CredentialSource
	http     *http.Client
}

func NewGeminiClient(cfg config.TTSConfig, creds CredentialSource) *GeminiClient {
	return &GeminiClient{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		model:    cfg.Model,
		creds:    creds,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Synthesize sends text to the provider and returns the audio wrapped in a
// WAV container. Non-2xx responses come back as *ProviderError.
func (c *GeminiClient) Synthesize(ctx context.Context, text, voiceID string) (*Artifact, error) {
	credID, key := c.creds.Active()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceID},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling synthesis provider: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseProviderError(resp.StatusCode, respBody)
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, fmt.Errorf("decoding provider response: %w", err)
	}

	pcm, mime, err := extractAudio(&gr)
	if err != nil {
		return nil, err
	}

	slog.Debug("synthesis complete",
		"credential", credID,
		"voice", voiceID,
		"chars", len(text),
		"bytes", len(pcm),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Artifact{
		Audio:    wrapWAV(pcm, sampleRateFromMIME(mime)),
		MIMEType: "audio/wav",
		VoiceID:  voiceID,
		Chars:    len(text),
	}, nil
}

func parseProviderError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && (er.Error.Message != "" || er.Error.Status != "") {
		return &ProviderError{StatusCode: status, Status: er.Error.Status, Message: er.Error.Message}
	}
	return &ProviderError{StatusCode: status, Status: http.StatusText(status), Message: strings.TrimSpace(string(body))}
}

func extractAudio(gr *generateResponse) (pcm []byte, mime string, err error) {
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("decoding audio payload: %w", err)
			}
			return data, p.InlineData.MIMEType, nil
		}
	}
	return nil, "", fmt.Errorf("provider response contained no audio")
}

// sampleRateFromMIME reads the rate parameter out of strings like
// "audio/L16;codec=pcm;rate=24000".
func sampleRateFromMIME(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		param = strings.TrimSpace(param)
		if v, ok := strings.CutPrefix(param, "rate="); ok {
			if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
				return rate
			}
		}
	}
	return defaultSampleRate
}

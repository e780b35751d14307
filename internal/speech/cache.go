package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxgate/voxgate/internal/tts"
)

// AudioCache stores synthesized artifacts in Redis, keyed by a digest of
// (voice, text). Serving a hit makes no provider call, so it consumes no
// quota on either side.
type AudioCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAudioCache creates a cache with the given entry TTL.
func NewAudioCache(client redis.Cmdable, ttl time.Duration) *AudioCache {
	return &AudioCache{client: client, ttl: ttl}
}

func cacheKey(voiceID, text string) string {
	sum := sha256.Sum256([]byte(voiceID + "\x00" + text))
	return "audio:" + hex.EncodeToString(sum[:])
}

// Get returns the cached artifact, or nil when absent.
func (c *AudioCache) Get(ctx context.Context, voiceID, text string) (*tts.Artifact, error) {
	data, err := c.client.Get(ctx, cacheKey(voiceID, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("audio cache get: %w", err)
	}

	var entry cachedArtifact
	if err := json.Unmarshal(data, &entry); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		return nil, nil
	}
	return &tts.Artifact{
		Audio:    entry.Audio,
		MIMEType: entry.MIMEType,
		VoiceID:  entry.VoiceID,
		Chars:    entry.Chars,
	}, nil
}

// Put stores the artifact with the configured TTL.
func (c *AudioCache) Put(ctx context.Context, voiceID, text string, art *tts.Artifact) error {
	data, err := json.Marshal(cachedArtifact{
		Audio:    art.Audio,
		MIMEType: art.MIMEType,
		VoiceID:  art.VoiceID,
		Chars:    art.Chars,
	})
	if err != nil {
		return fmt.Errorf("marshaling cached artifact: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(voiceID, text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("audio cache put: %w", err)
	}
	return nil
}

type cachedArtifact struct {
	Audio    []byte `json:"audio"`
	MIMEType string `json:"mime_type"`
	VoiceID  string `json:"voice_id"`
	Chars    int    `json:"chars"`
}

package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRing_Empty(t *testing.T) {
	_, err := NewRing(nil)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestRing_ActiveAndRotate(t *testing.T) {
	ring, err := NewRing([]string{"key-alpha-0123456789", "key-beta-0123456789"})
	require.NoError(t, err)
	require.Equal(t, 2, ring.Size())

	firstID, firstKey := ring.Active()
	assert.Equal(t, "key-alpha-0123456789", firstKey)
	assert.NotContains(t, firstID, "alpha", "credential ID must not leak key material")

	newID := ring.Rotate()
	assert.NotEqual(t, firstID, newID)

	id, key := ring.Active()
	assert.Equal(t, newID, id)
	assert.Equal(t, "key-beta-0123456789", key)
}

func TestRing_RotateWrapsAround(t *testing.T) {
	ring, err := NewRing([]string{"a-0123456789abcdef", "b-0123456789abcdef"})
	require.NoError(t, err)

	start := ring.ActiveID()
	ring.Rotate()
	back := ring.Rotate()
	assert.Equal(t, start, back)
}

func TestRing_SingleKeyRotation(t *testing.T) {
	ring, err := NewRing([]string{"only-key-0123456789"})
	require.NoError(t, err)

	before := ring.ActiveID()
	after := ring.Rotate()
	// Same key, but rotation still succeeds so the quota reset can run.
	assert.Equal(t, before, after)
}

func TestCredentialID_Stable(t *testing.T) {
	assert.Equal(t, credentialID("some-key"), credentialID("some-key"))
	assert.NotEqual(t, credentialID("some-key"), credentialID("other-key"))
}

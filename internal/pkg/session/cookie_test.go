package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour)

	sid := NewSessionID()
	require.NotEmpty(t, sid)

	value, err := codec.Encode(sid)
	require.NoError(t, err)

	got, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, sid, got)
}

func TestCookieCodec_RejectsTampering(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour)

	value, err := codec.Encode("sid-1")
	require.NoError(t, err)

	_, err = codec.Decode(value + "x")
	assert.Error(t, err)
}

func TestCookieCodec_RejectsWrongSecret(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour)
	other := NewCookieCodec("other-secret", time.Hour)

	value, err := codec.Encode("sid-1")
	require.NoError(t, err)

	_, err = other.Decode(value)
	assert.Error(t, err)
}

func TestCookieCodec_RejectsExpired(t *testing.T) {
	codec := NewCookieCodec("test-secret", -time.Minute)

	value, err := codec.Encode("sid-1")
	require.NoError(t, err)

	_, err = codec.Decode(value)
	assert.Error(t, err)
}

func TestNewSessionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		sid := NewSessionID()
		assert.False(t, seen[sid])
		seen[sid] = true
	}
}

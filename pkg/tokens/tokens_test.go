package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndDecode(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"))

	token, exp, err := codec.Issue("42")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(AccessTTL), exp, time.Second)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
	assert.False(t, claims.Expired(time.Now()))
}

func TestCodec_DecodeExpiredToken_SignatureStillVerifies(t *testing.T) {
	t.Parallel()

	codec := &Codec{Secret: []byte("test-secret"), TTL: -time.Minute}

	token, _, err := codec.Issue("7")
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err, "expiry must not be rejected at the codec layer")
	assert.Equal(t, "7", claims.Subject)
	assert.True(t, claims.Expired(time.Now()))
}

func TestCodec_DecodeFailures(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"))
	other := NewCodec([]byte("another-secret"))

	token, _, err := other.Issue("42")
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not-a-jwt"},
		{name: "empty", raw: ""},
		{name: "wrong key", raw: token},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := codec.Decode(tt.raw)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

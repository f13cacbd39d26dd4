package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerify_Roundtrip(t *testing.T) {
	h := NewHasher()

	encoded, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=102400,t=2,p=8$"))

	assert.True(t, h.Verify("correct horse battery staple", encoded))
	assert.False(t, h.Verify("correct horse battery stapl", encoded))
	assert.False(t, h.Verify("", encoded))
}

func TestHash_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("hunter22")
	require.NoError(t, err)
	second, err := h.Hash("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("hunter22", first))
	assert.True(t, h.Verify("hunter22", second))
}

func TestVerify_MalformedHashDoesNotMatch(t *testing.T) {
	h := NewHasher()

	for _, encoded := range []string{
		"",
		"plainly-not-a-hash",
		"$argon2id$v=19$m=102400,t=2,p=8$short",
		"$argon2i$v=19$m=102400,t=2,p=8$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=18$m=102400,t=2,p=8$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=2,p=8$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=102400,t=2,p=8$!!!$aGFzaA",
	} {
		assert.False(t, h.Verify("anything", encoded), "hash %q must not verify", encoded)
	}
}

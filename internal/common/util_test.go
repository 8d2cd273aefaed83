package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString(t *testing.T) {
	s, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	s2, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("sensitive")
	WipeByteArray(b)
	for i := range b {
		assert.Zero(t, b[i])
	}

	// nil slice must not panic
	WipeByteArray(nil)
}

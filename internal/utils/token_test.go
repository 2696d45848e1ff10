package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenKey(t *testing.T) {
	first, err := GenerateTokenKey()
	require.NoError(t, err)
	require.Len(t, first, 40)

	_, err = hex.DecodeString(first)
	require.NoError(t, err)

	second, err := GenerateTokenKey()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

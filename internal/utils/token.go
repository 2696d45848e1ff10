package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/join-board/join-api/internal/constants"
)

// GenerateTokenKey generates a random 40-character hex API token key
func GenerateTokenKey() (string, error) {
	bytes := make([]byte, constants.TokenKeyBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

package game

import (
	"crypto/rand"
	"encoding/hex"
)

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateMatchID generates a unique match ID
func generateMatchID() string {
	return "m_" + generateToken(8)
}

// generateEntryID generates a unique queue entry ID
func generateEntryID() string {
	return "q_" + generateToken(6)
}

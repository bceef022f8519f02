package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// RecoveryTokenBytes is the entropy of a password recovery token (64 hex chars).
const RecoveryTokenBytes = 32

// GenRecoveryToken returns a random hex token and the SHA-256 digest to store.
func GenRecoveryToken() (token, digest string, err error) {
	b := make([]byte, RecoveryTokenBytes)
	if _, err = rand.Read(b); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(b)
	return token, HashToken(token), nil
}

// HashToken is the digest under which recovery tokens are persisted.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

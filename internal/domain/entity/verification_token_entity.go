package entity

import "time"

// VerificationToken proves control of an email address.
// Identifier is the owning user's email; Token is the SHA-256 digest of the
// value mailed to the user, never the plaintext.
type VerificationToken struct {
	Identifier string
	Token      string
	Expires    time.Time
}

// IsExpired reports whether the token is past its expiry at now.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.Expires)
}

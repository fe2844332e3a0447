package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const keyIterations = 10000

// Pseudonymizer produces stable, non-reversible identifiers for audit
// records so patient ids can be retained past the personal-data window.
type Pseudonymizer struct {
	key []byte
}

// NewPseudonymizer derives the HMAC key from the configured secret and salt.
func NewPseudonymizer(secret, salt string) *Pseudonymizer {
	key := pbkdf2.Key([]byte(secret), []byte(salt), keyIterations, 32, sha256.New)
	return &Pseudonymizer{key: key}
}

// Pseudonym maps a subject id to a stable opaque token. The same input
// always yields the same token, so audit trails remain linkable.
func (p *Pseudonymizer) Pseudonym(subjectID string) string {
	mac := hmac.New(sha256.New, p.key)
	mac.Write([]byte(subjectID))
	return hex.EncodeToString(mac.Sum(nil))
}

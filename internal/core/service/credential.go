package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// credentialBytes is the entropy of a provisioned credential. The plaintext
// is discarded after hashing; the account holder sets a password through the
// reset flow.
const credentialBytes = 32

// newCredentialHash generates a random secret and returns its bcrypt hash.
func newCredentialHash(cost int) (string, error) {
	b := make([]byte, credentialBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate credential: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(b)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hash), nil
}

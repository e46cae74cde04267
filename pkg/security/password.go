package security

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrPasswordTooShort = errors.New("password too short")
	MinPasswordLen      = 6
)

// Digester provides interface for password digest operations. The digest is
// deterministic: accounts are looked up by (username, digest), and the seeded
// administrator digest must be reproducible across runs.
type Digester interface {
	Digest(password string) string
	Verify(digest, password string) bool
}

type sha256Digester struct{}

// NewSHA256Digester creates the fixed digest function used for stored
// credentials.
func NewSHA256Digester() Digester {
	return sha256Digester{}
}

func (sha256Digester) Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (d sha256Digester) Verify(digest, password string) bool {
	return d.Digest(password) == digest
}

// CheckLength enforces the minimum password length for new credentials.
// Existing digests are never re-validated against it.
func CheckLength(password string) error {
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

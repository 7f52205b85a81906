package creds

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hasher abstracts the stored password representation so that Verify keeps
// its boolean contract regardless of whether passwords are stored hashed or
// verbatim.
type Hasher interface {
	// Hash returns the value to persist for a password.
	Hash(password string) (string, error)
	// Compare reports whether candidate matches the persisted value.
	Compare(stored, candidate string) bool
}

// BcryptHasher stores salted bcrypt hashes. This is the default.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (BcryptHasher) Compare(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// PlainHasher stores passwords verbatim and compares by exact value. It
// exists for byte-for-byte compatibility with data written by the original
// system and must not be used for new deployments.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

func (PlainHasher) Compare(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

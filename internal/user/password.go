package user

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// bcrypt ignores or rejects input past this many bytes.
const bcryptMaxInput = 72

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// BcryptHasher salts every hash with fresh randomness, so hashing the same
// password twice yields two different strings that both verify.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(passwordInput(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordInput(password)) == nil
}

// passwordInput normalizes to NFC so visually identical passwords typed on
// different platforms hash the same. Inputs over bcrypt's limit are reduced
// with SHA-256 first so no length constraint leaks to callers.
func passwordInput(password string) []byte {
	b := []byte(norm.NFC.String(password))
	if len(b) <= bcryptMaxInput {
		return b
	}
	sum := sha256.Sum256(b)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

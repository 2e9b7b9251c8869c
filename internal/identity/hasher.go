package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Hasher derives the Root Identity Hash: a salted, one-way digest standing in
// for a user's PII. Identical normalized inputs under the same salt always
// produce the same hash; the salt is fixed at construction and never mutated.
type Hasher struct {
	salt string
}

func NewHasher(salt string) *Hasher {
	return &Hasher{salt: salt}
}

// Hash normalizes each input (case-fold, strip all whitespace), concatenates
// first+last+nationalID, appends the secret salt, and returns the lowercase
// hex SHA-256 digest. Pure function, no I/O.
func (h *Hasher) Hash(firstName, lastName, nationalID string) string {
	raw := normalize(firstName) + normalize(lastName) + normalize(nationalID)
	sum := sha256.Sum256([]byte(raw + h.salt))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(stripped)
}

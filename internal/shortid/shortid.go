// Package shortid mints the short share identifiers that key file records.
//
// Identifiers double as unguessable access tokens, so every symbol is drawn
// from crypto/rand. Uniqueness is not guaranteed here; the files table's
// primary key is the collision guard.
package shortid

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"linkbox/internal/domain"
)

// Alphabet is the 62-symbol URL-safe set identifiers are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength yields 62^6 (about 5.7e10) possible identifiers.
const DefaultLength = 6

// MaxLength matches the width of the files.id column.
const MaxLength = 12

// Generator produces an identifier of the requested length.
type Generator func(length int) (string, error)

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a random identifier of exactly length symbols.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: id length must be > 0, got %d", domain.ErrInvalidArgument, length)
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether id could have been produced by Generate.
func Valid(id string) bool {
	if id == "" || len(id) > MaxLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

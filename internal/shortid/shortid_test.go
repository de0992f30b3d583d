package shortid_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbox/internal/domain"
	"linkbox/internal/shortid"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func TestGenerate_DefaultLength(t *testing.T) {
	id, err := shortid.Generate(shortid.DefaultLength)

	require.NoError(t, err)
	assert.Len(t, id, 6)
	assert.Regexp(t, idPattern, id)
}

func TestGenerate_CustomLengths(t *testing.T) {
	for _, n := range []int{1, 10, 12, 64} {
		id, err := shortid.Generate(n)
		require.NoError(t, err)
		assert.Len(t, id, n)
		assert.Regexp(t, idPattern, id)
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		id, err := shortid.Generate(n)
		assert.Empty(t, id)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
}

func TestGenerate_UsesWholeAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		id, err := shortid.Generate(32)
		require.NoError(t, err)
		for _, r := range id {
			seen[r] = true
		}
	}

	for _, r := range shortid.Alphabet {
		assert.True(t, seen[r], "symbol %q never drawn", r)
	}
	assert.Len(t, seen, len(shortid.Alphabet))
}

func TestGenerate_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := shortid.Generate(shortid.DefaultLength)
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	// 1000 draws from 62^6 should essentially never collide.
	assert.GreaterOrEqual(t, len(seen), 999)
}

func TestValid(t *testing.T) {
	assert.True(t, shortid.Valid("aZ09xY"))
	assert.True(t, shortid.Valid("a"))
	assert.True(t, shortid.Valid(strings.Repeat("a", shortid.MaxLength)))

	assert.False(t, shortid.Valid(""))
	assert.False(t, shortid.Valid(strings.Repeat("a", shortid.MaxLength+1)))
	assert.False(t, shortid.Valid("abc-12"))
	assert.False(t, shortid.Valid("../etc"))
	assert.False(t, shortid.Valid("ab cd"))
}

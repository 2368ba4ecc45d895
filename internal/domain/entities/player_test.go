package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tag and brackets stripped",
			input:    "Ninja [OW]",
			expected: "ninjaow",
		},
		{
			name:     "already compact",
			input:    "ninja[ow]",
			expected: "ninjaow",
		},
		{
			name:     "diacritics transliterated",
			input:    "José María",
			expected: "josemaria",
		},
		{
			name:     "whitespace and punctuation",
			input:    "  The_Great-One! ",
			expected: "thegreatone",
		},
		{
			name:     "digits kept",
			input:    "Player42",
			expected: "player42",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeName_Deterministic(t *testing.T) {
	// Same input always gives the same output, and normalizing twice is the
	// same as normalizing once.
	for _, input := range []string{"Ninja [OW]", "Åsa Öberg", "x y z"} {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(input))
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestStorePlayerNum(t *testing.T) {
	// Save index 0 is the first, always-valid player slot, never "no
	// player".
	for i := 0; i < 16; i++ {
		assert.Equal(t, i+1, StorePlayerNum(i))
	}
}

func TestPlayerNumMap(t *testing.T) {
	m := NewPlayerNumMap(2)

	t.Run("in range", func(t *testing.T) {
		num, ok := m.Store(0)
		require.True(t, ok)
		assert.Equal(t, 1, num)

		num, ok = m.Store(1)
		require.True(t, ok)
		assert.Equal(t, 2, num)
	})

	t.Run("out of range", func(t *testing.T) {
		_, ok := m.Store(2)
		assert.False(t, ok)
		_, ok = m.Store(-1)
		assert.False(t, ok)
	})

	t.Run("nil reference stays nil", func(t *testing.T) {
		ref, ok := m.StoreRef(nil)
		require.True(t, ok)
		assert.Nil(t, ref)
	})

	t.Run("zero reference maps to first player", func(t *testing.T) {
		zero := 0
		ref, ok := m.StoreRef(&zero)
		require.True(t, ok)
		require.NotNil(t, ref)
		assert.Equal(t, 1, *ref)
	})
}

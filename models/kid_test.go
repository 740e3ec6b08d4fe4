package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKID_RoundTrip(t *testing.T) {
	sequences := []int64{0, 1, 30, 31, 961, 123456789, 1<<40 + 7}

	for _, seq := range sequences {
		kid, err := NewKID(KeyPrefixUser, seq)
		require.NoError(t, err, "sequence %d", seq)

		assert.Len(t, string(kid), KIDLength)
		assert.Equal(t, KeyPrefixUser, kid.Prefix())
		assert.Equal(t, seq, kid.Sequence())

		reparsed, err := ParseKID(string(kid))
		require.NoError(t, err)
		assert.Equal(t, kid, reparsed)
	}
}

func TestNewKID_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		prefix   KeyPrefix
		sequence int64
	}{
		{name: "empty prefix", prefix: "", sequence: 1},
		{name: "short prefix", prefix: "ab", sequence: 1},
		{name: "long prefix", prefix: "abcd", sequence: 1},
		{name: "prefix with vowel", prefix: "0a0", sequence: 1},
		{name: "negative sequence", prefix: KeyPrefixUser, sequence: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKID(tt.prefix, tt.sequence)
			require.Error(t, err)
			assert.True(t,
				errors.Is(err, ErrKIDFormat) || errors.Is(err, ErrKeyPrefixFormat),
				"got %v", err)
		})
	}
}

func TestNewKID_SequenceOverflow(t *testing.T) {
	// 31^10 does not fit the ten encoded characters.
	_, err := NewKID(KeyPrefixUser, 1<<62)
	require.ErrorIs(t, err, ErrKIDFormat)
}

func TestParseKID_RejectsMalformedStrings(t *testing.T) {
	tests := []string{
		"",
		"003",
		"0030000000001x",   // too long
		"003000000001",     // too short
		"003000000000A",    // uppercase not in alphabet
		"00300000000e1",    // vowel not in alphabet
		"0030000 00001",    // whitespace
	}

	for _, input := range tests {
		_, err := ParseKID(input)
		assert.ErrorIs(t, err, ErrKIDFormat, "input %q", input)
	}
}

func TestNewKeyPrefix(t *testing.T) {
	p, err := NewKeyPrefix(0)
	require.NoError(t, err)
	assert.Equal(t, KeyPrefix("000"), p)

	p, err = NewKeyPrefix(31)
	require.NoError(t, err)
	assert.Equal(t, KeyPrefix("010"), p)

	_, err = NewKeyPrefix(31 * 31 * 31)
	assert.ErrorIs(t, err, ErrKeyPrefixFormat)

	_, err = NewKeyPrefix(-5)
	assert.ErrorIs(t, err, ErrKeyPrefixFormat)
}

func TestEncodeSequence_Base(t *testing.T) {
	assert.Equal(t, "0", encodeSequence(0))
	assert.Equal(t, "1", encodeSequence(1))
	assert.Equal(t, "z", encodeSequence(30))
	assert.Equal(t, "10", encodeSequence(31))
	assert.Equal(t, "100", encodeSequence(31*31))
}

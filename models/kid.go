package models

import (
	"fmt"
	"strings"
)

// kidAlphabet is the fixed 31-symbol alphabet used to encode identifier
// sequences. Vowels are excluded so that generated identifiers can never
// spell recognisable words. The alphabet order is part of the storage
// format and must never change: it is mirrored by the kid_encode SQL
// function that computes column defaults.
const kidAlphabet = "0123456789bcdfghjklmnpqrstvwxyz"

const (
	// KIDLength is the exact length of every record identifier:
	// a 3-character key prefix followed by a 10-character encoded sequence.
	KIDLength = 13

	// KeyPrefixLength is the exact length of a key prefix.
	KeyPrefixLength = 3

	kidSequenceLength = KIDLength - KeyPrefixLength
)

// KID is a globally unique, type-prefixed record identifier.
//
// The first three characters are the [KeyPrefix] of the owning Type and the
// remaining ten encode a monotonic sequence number. A KID is an immutable
// value compared by its string form; construct one via [NewKID] or
// [ParseKID] — a KID obtained any other way may violate the format
// invariants.
type KID string

// KeyPrefix identifies which Type a KID belongs to. It is the 3-character
// analogue of [KID]: an encoded sequence number, left-padded with '0'.
type KeyPrefix string

// Reserved key prefixes of the built-in system Types. Custom Types draw
// their prefixes from the persisted key-prefix counter instead.
const (
	KeyPrefixType       KeyPrefix = "001"
	KeyPrefixField      KeyPrefix = "002"
	KeyPrefixUser       KeyPrefix = "003"
	KeyPrefixDictionary KeyPrefix = "004"
	KeyPrefixHistory    KeyPrefix = "005"
)

// NewKID encodes sequence with the fixed identifier alphabet, left-pads the
// result to ten characters and prepends prefix.
//
// Returns [ErrKIDFormat] if prefix is malformed, sequence is negative, or
// the encoded sequence does not fit into ten characters.
func NewKID(prefix KeyPrefix, sequence int64) (KID, error) {
	if err := prefix.Validate(); err != nil {
		return "", err
	}
	if sequence < 0 {
		return "", fmt.Errorf("%w: negative sequence %d", ErrKIDFormat, sequence)
	}

	encoded := encodeSequence(sequence)
	if len(encoded) > kidSequenceLength {
		return "", fmt.Errorf("%w: sequence %d exceeds identifier capacity", ErrKIDFormat, sequence)
	}

	kid := KID(string(prefix) + leftPad(encoded, kidSequenceLength))
	if len(kid) != KIDLength {
		return "", fmt.Errorf("%w: %q is not %d characters long", ErrKIDFormat, kid, KIDLength)
	}

	return kid, nil
}

// ParseKID validates s as a stored identifier and returns it as a [KID].
//
// Returns [ErrKIDFormat] if s is not exactly thirteen characters or contains
// a symbol outside the identifier alphabet. The value is never truncated or
// coerced.
func ParseKID(s string) (KID, error) {
	if len(s) != KIDLength {
		return "", fmt.Errorf("%w: %q is not %d characters long", ErrKIDFormat, s, KIDLength)
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(kidAlphabet, rune(s[i])) {
			return "", fmt.Errorf("%w: %q contains invalid symbol %q", ErrKIDFormat, s, s[i])
		}
	}

	return KID(s), nil
}

// Prefix returns the key prefix portion of the identifier.
func (k KID) Prefix() KeyPrefix {
	if len(k) < KeyPrefixLength {
		return ""
	}
	return KeyPrefix(k[:KeyPrefixLength])
}

// Sequence decodes the sequence number portion of the identifier.
func (k KID) Sequence() int64 {
	if len(k) != KIDLength {
		return -1
	}
	return decodeSequence(string(k[KeyPrefixLength:]))
}

// String implements fmt.Stringer.
func (k KID) String() string { return string(k) }

// IsZero reports whether the identifier is the empty value.
func (k KID) IsZero() bool { return k == "" }

// Validate reports whether the identifier satisfies the format invariants.
func (k KID) Validate() error {
	_, err := ParseKID(string(k))
	return err
}

// NewKeyPrefix encodes sequence with the identifier alphabet and left-pads
// the result to three characters.
//
// Returns [ErrKeyPrefixFormat] if sequence is negative or encodes to more
// than three characters.
func NewKeyPrefix(sequence int64) (KeyPrefix, error) {
	if sequence < 0 {
		return "", fmt.Errorf("%w: negative sequence %d", ErrKeyPrefixFormat, sequence)
	}

	encoded := encodeSequence(sequence)
	if len(encoded) > KeyPrefixLength {
		return "", fmt.Errorf("%w: sequence %d exceeds prefix capacity", ErrKeyPrefixFormat, sequence)
	}

	return KeyPrefix(leftPad(encoded, KeyPrefixLength)), nil
}

// ParseKeyPrefix validates s as a key prefix.
func ParseKeyPrefix(s string) (KeyPrefix, error) {
	p := KeyPrefix(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// String implements fmt.Stringer.
func (p KeyPrefix) String() string { return string(p) }

// Validate reports whether the prefix satisfies the format invariants.
func (p KeyPrefix) Validate() error {
	if len(p) != KeyPrefixLength {
		return fmt.Errorf("%w: %q is not %d characters long", ErrKeyPrefixFormat, p, KeyPrefixLength)
	}
	for i := 0; i < len(p); i++ {
		if !strings.ContainsRune(kidAlphabet, rune(p[i])) {
			return fmt.Errorf("%w: %q contains invalid symbol %q", ErrKeyPrefixFormat, p, p[i])
		}
	}

	return nil
}

// encodeSequence converts a non-negative sequence number to its textual form
// in the identifier alphabet. Zero encodes to "0".
func encodeSequence(sequence int64) string {
	base := int64(len(kidAlphabet))
	if sequence == 0 {
		return string(kidAlphabet[0])
	}

	buf := make([]byte, 0, kidSequenceLength)
	for sequence > 0 {
		buf = append(buf, kidAlphabet[sequence%base])
		sequence /= base
	}
	// digits were produced least-significant first
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// decodeSequence is the inverse of [encodeSequence]. Unknown symbols make
// the result undefined; callers validate first.
func decodeSequence(s string) int64 {
	base := int64(len(kidAlphabet))
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*base + int64(strings.IndexByte(kidAlphabet, s[i]))
	}
	return n
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(kidAlphabet[0]), width-len(s)) + s
}

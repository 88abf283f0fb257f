package codegen

import (
	"crypto/rand"
	"fmt"
)

// Alphabet is the fixed character set for pairing codes. Kept short and
// unambiguous so codes can be read out loud in a classroom.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the wire length of a pairing code.
const CodeLength = 6

// New returns a random code of the given length drawn from Alphabet.
func New(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("codegen: invalid length %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("codegen: %w", err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf), nil
}

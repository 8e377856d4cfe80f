// Package otp generates one-time numeric verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// Generator produces 6-digit numeric codes as zero-padded strings.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading from crypto/rand.
func NewGenerator() *Generator {
	return &Generator{rand: rand.Reader}
}

// Generate returns a code drawn uniformly from 000000-999999.
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(g.rand, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// Valid reports whether code has the expected shape: exactly six ASCII digits.
func Valid(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

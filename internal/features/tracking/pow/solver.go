// Package pow solves the trackcourier anti-bot challenge: find the smallest
// nonce such that SHA-256(challenge + decimal(nonce)) starts with at least
// difficulty zero bits.
package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

const (
	// DefaultStartNonce is the first nonce tried by Solve.
	DefaultStartNonce int64 = 0
	// DefaultMaxNonce is the last nonce tried by Solve.
	DefaultMaxNonce int64 = 10_000_000
)

// ErrNonceExhausted is returned when no nonce in the searched range satisfies the difficulty.
var ErrNonceExhausted = errors.New("failed to solve proof of work")

// Solution is a nonce together with the hex digest it produced.
type Solution struct {
	Nonce int64  `json:"nonce"`
	Hash  string `json:"hash"`
}

// Solve searches the default nonce range.
func Solve(challenge string, difficulty int) (*Solution, error) {
	return SolveRange(challenge, difficulty, DefaultStartNonce, DefaultMaxNonce)
}

// SolveRange searches nonces in [startNonce, maxNonce] in ascending order and
// returns the first one whose digest has at least difficulty leading zero bits.
func SolveRange(challenge string, difficulty int, startNonce, maxNonce int64) (*Solution, error) {
	if startNonce < 0 {
		startNonce = 0
	}

	buf := make([]byte, 0, len(challenge)+20)
	buf = append(buf, challenge...)
	prefix := len(buf)

	for nonce := startNonce; nonce <= maxNonce; nonce++ {
		buf = strconv.AppendInt(buf[:prefix], nonce, 10)
		sum := sha256.Sum256(buf)
		if LeadingZeroBits(sum[:]) >= difficulty {
			return &Solution{Nonce: nonce, Hash: hex.EncodeToString(sum[:])}, nil
		}
	}

	return nil, fmt.Errorf("%w within nonce range %d..%d", ErrNonceExhausted, startNonce, maxNonce)
}

// LeadingZeroBits counts zero bits from the most significant bit of the first byte.
func LeadingZeroBits(digest []byte) int {
	n := 0
	for _, b := range digest {
		if b == 0 {
			n += 8
			continue
		}
		return n + bits.LeadingZeros8(b)
	}
	return n
}

// Verify recomputes the digest for nonce and checks it against difficulty.
func Verify(challenge string, nonce int64, difficulty int) bool {
	sum := sha256.Sum256([]byte(challenge + strconv.FormatInt(nonce, 10)))
	return LeadingZeroBits(sum[:]) >= difficulty
}

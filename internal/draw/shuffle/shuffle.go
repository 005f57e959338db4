// Package shuffle produces fair random payout orders. It is pure computation:
// no I/O, no shared state. The shuffle is seeded by the caller and is not
// hardened against adversarial participants.
package shuffle

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	mathrand "math/rand"

	"github.com/pasanaku/pasanaku/internal/models"
)

// ErrEmptyInput is returned when no members are given to shuffle.
var ErrEmptyInput = errors.New("shuffle: empty member list")

// NewSeed draws a uniform 64-bit seed from the OS entropy source.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Shuffle returns the payout order for the given members as a fresh
// permutation, leaving the input untouched. The same seed always yields the
// same order, which keeps draws reproducible in tests and audits.
//
// The permutation is built with a Fisher-Yates shuffle over an explicit index
// slice: iterate from the last index down to 1, swapping each element with a
// uniformly chosen index in [0, i]. Every one of the n! orderings is equally
// likely when the seed is uniform.
func Shuffle(members []models.Member, seed int64) ([]models.PositionAssignment, error) {
	if len(members) == 0 {
		return nil, ErrEmptyInput
	}

	rng := mathrand.New(mathrand.NewSource(seed))

	idx := make([]int, len(members))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}

	order := make([]models.PositionAssignment, len(members))
	for pos, i := range idx {
		order[pos] = models.PositionAssignment{
			Position:    pos + 1,
			MemberID:    members[i].ID,
			DisplayName: members[i].DisplayName,
		}
	}
	return order, nil
}

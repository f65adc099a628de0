// Package wheel holds the pure pieces of the spin protocol: the weighted
// prize selector and the redemption code generator. Neither touches storage.
package wheel

import (
	"math/rand"

	"github.com/wheeldeal/wheeldeal-backend/internal/models"
)

// Selector draws prizes from a weighted wheel. Each draw is independent; the
// same prize can be won repeatedly.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a Selector backed by the given random source. Tests pass
// a seeded source for reproducible draws.
func NewSelector(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Pick returns the label of one wheel option, chosen with probability
// weight / total weight. Fails with models.ErrInvalidWheel if the list is
// empty or the total weight is not positive.
func (s *Selector) Pick(options []models.WheelOption) (string, error) {
	total := 0
	for _, opt := range options {
		if opt.Weight > 0 {
			total += opt.Weight
		}
	}
	if total <= 0 {
		return "", models.ErrInvalidWheel
	}

	draw := s.rng.Intn(total)
	cumulative := 0
	for _, opt := range options {
		if opt.Weight <= 0 {
			continue
		}
		cumulative += opt.Weight
		if draw < cumulative {
			return opt.Label, nil
		}
	}
	// Unreachable: cumulative reaches total and draw < total.
	return options[len(options)-1].Label, nil
}

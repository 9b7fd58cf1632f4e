// Package payment models the external payment gateway the booking flow
// depends on.  The platform does not integrate a real gateway; charges
// are simulated with a configurable random failure rate so the
// confirmation path exercises its failure handling.
package payment

import (
	"context"
	"errors"
	"math/rand"

	"github.com/google/uuid"
)

// ErrDeclined is returned when the simulated gateway rejects a charge.
var ErrDeclined = errors.New("payment declined")

// Processor charges a booking.  reference is the booking code passed
// through for gateway-side correlation; on success the returned string
// is the gateway's transaction reference.
type Processor interface {
	Charge(ctx context.Context, reference string, amountCents uint32) (string, error)
}

// Simulator is a Processor that approves charges with probability
// 1 - FailPct/100.  The zero value approves everything.
type Simulator struct {
	FailPct int            // failure rate in percent, clamped to [0,100]
	Rand    func() float64 // random source; defaults to math/rand
}

// NewSimulator returns a Simulator with the given failure percentage.
func NewSimulator(failPct int) *Simulator {
	return &Simulator{FailPct: failPct}
}

// Charge simulates payment processing.  Declines return ErrDeclined and
// no transaction reference.
func (s *Simulator) Charge(_ context.Context, _ string, _ uint32) (string, error) {
	pct := s.FailPct
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	roll := s.Rand
	if roll == nil {
		roll = rand.Float64
	}
	if roll() < float64(pct)/100 {
		return "", ErrDeclined
	}
	return uuid.NewString(), nil
}

package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeApproves(t *testing.T) {
	s := &Simulator{FailPct: 10, Rand: func() float64 { return 0.5 }}
	ref, err := s.Charge(context.Background(), "BK0000000001", 200)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
}

func TestChargeDeclines(t *testing.T) {
	s := &Simulator{FailPct: 10, Rand: func() float64 { return 0.05 }}
	ref, err := s.Charge(context.Background(), "BK0000000001", 200)
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Empty(t, ref)
}

func TestChargeClampsFailPct(t *testing.T) {
	always := &Simulator{FailPct: 150, Rand: func() float64 { return 0.99 }}
	_, err := always.Charge(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrDeclined)

	never := &Simulator{FailPct: -5, Rand: func() float64 { return 0.0 }}
	_, err = never.Charge(context.Background(), "x", 1)
	assert.NoError(t, err)
}

func TestZeroValueApprovesEverything(t *testing.T) {
	var s Simulator
	for i := 0; i < 50; i++ {
		_, err := s.Charge(context.Background(), "x", 1)
		require.NoError(t, err)
	}
}

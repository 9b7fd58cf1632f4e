package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatLabel(t *testing.T) {
	assert.Equal(t, "A1", SeatLabel(0, 0))
	assert.Equal(t, "A12", SeatLabel(0, 11))
	assert.Equal(t, "C4", SeatLabel(2, 3))
	assert.Equal(t, "Z99", SeatLabel(25, 98))
}

func TestLayoutLabelsRowMajor(t *testing.T) {
	l := SeatLayout{Rows: 2, Cols: 3}
	assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, l.Labels())
}

func TestLayoutValid(t *testing.T) {
	assert.True(t, SeatLayout{Rows: 1, Cols: 1}.Valid())
	assert.True(t, SeatLayout{Rows: 26, Cols: 40}.Valid())
	assert.False(t, SeatLayout{Rows: 0, Cols: 5}.Valid())
	assert.False(t, SeatLayout{Rows: 5, Cols: 0}.Valid())
	assert.False(t, SeatLayout{Rows: 27, Cols: 5}.Valid())
}

func TestLayoutContains(t *testing.T) {
	l := SeatLayout{Rows: 3, Cols: 12}

	for _, label := range []string{"A1", "A12", "B5", "C12"} {
		assert.True(t, l.Contains(label), label)
	}

	bad := []string{
		"",     // empty
		"A",    // no column
		"A0",   // columns start at 1
		"A13",  // past the last column
		"D1",   // past the last row
		"a1",   // labels are canonical uppercase
		"A01",  // no leading zeros
		"1A",   // wrong order
		"A1x",  // trailing garbage
		"AA1",  // double letter
	}
	for _, label := range bad {
		assert.False(t, l.Contains(label), "%q", label)
	}
}

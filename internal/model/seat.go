package model

import "strconv"

// SeatLayout is a rectangular seat grid.  Seat labels are derived from
// grid positions: row index 0 becomes letter "A", column index 0 becomes
// number 1, so the top-left seat is "A1".  Labels are referenced by
// value inside bookings; seats are not stored as rows of their own.
type SeatLayout struct {
	Rows uint32
	Cols uint32
}

// maxRows caps layouts at single-letter row labels.
const maxRows = 26

// Valid reports whether the layout describes at least one seat and fits
// the single-letter row scheme.
func (l SeatLayout) Valid() bool {
	return l.Rows >= 1 && l.Rows <= maxRows && l.Cols >= 1
}

// SeatLabel returns the label for the given zero-based grid position.
func SeatLabel(row, col uint32) string {
	return string(rune('A'+row)) + strconv.Itoa(int(col)+1)
}

// Labels returns every seat label of the layout in row-major order
// ("A1", "A2", ..).
func (l SeatLayout) Labels() []string {
	out := make([]string, 0, l.Rows*l.Cols)
	for r := uint32(0); r < l.Rows; r++ {
		for c := uint32(0); c < l.Cols; c++ {
			out = append(out, SeatLabel(r, c))
		}
	}
	return out
}

// Contains reports whether the label denotes a seat inside the layout.
// Labels must be canonical: an uppercase row letter followed by a
// decimal column with no leading zero ("A1", not "a1" or "A01").
func (l SeatLayout) Contains(label string) bool {
	if len(label) < 2 {
		return false
	}
	row := label[0]
	if row < 'A' || row > 'Z' || uint32(row-'A') >= l.Rows {
		return false
	}
	digits := label[1:]
	if digits[0] == '0' {
		return false
	}
	col := uint32(0)
	for i := 0; i < len(digits); i++ {
		d := digits[i]
		if d < '0' || d > '9' {
			return false
		}
		col = col*10 + uint32(d-'0')
		if col > l.Cols {
			return false
		}
	}
	return col >= 1 && col <= l.Cols
}

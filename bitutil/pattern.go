package bitutil

import "math"

// PatternRow is the run-length encoding of one binarized image row: an
// ordered sequence of black/white run widths, starting with a white run
// (possibly zero-length) and alternating white/black. The sum of all widths
// equals the row's pixel length (spec.md §3).
type PatternRow struct {
	Widths       []uint16
	StartsBlack  bool // true if Widths[0] is actually a black run (producer-recorded)
}

// NewPatternRowFromBitArray extracts the full run-length sequence of a
// binarized row, always starting with a (possibly empty) white run, which is
// the convention spec.md §3 calls out explicitly.
func NewPatternRowFromBitArray(row *BitArray) *PatternRow {
	width := row.Size()
	widths := make([]uint16, 0, 32)
	isWhite := true
	runLen := 0
	for x := 0; x < width; x++ {
		black := row.Get(x)
		white := !black
		if white == isWhite {
			runLen++
		} else {
			widths = append(widths, uint16(runLen))
			isWhite = white
			runLen = 1
		}
	}
	widths = append(widths, uint16(runLen))
	return &PatternRow{Widths: widths}
}

// Sum returns the total width covered by the run sequence.
func (p *PatternRow) Sum() int {
	total := 0
	for _, w := range p.Widths {
		total += int(w)
	}
	return total
}

// View returns a PatternView over the full row.
func (p *PatternRow) View() *PatternView {
	return &PatternView{row: p, start: 0, length: len(p.Widths)}
}

// PatternView is a non-owning window into a PatternRow identifying the start
// index and length of a candidate region (spec.md §3).
type PatternView struct {
	row    *PatternRow
	start  int
	length int
}

// NewPatternView creates a view over [start, start+length) of row.
func NewPatternView(row *PatternRow, start, length int) *PatternView {
	return &PatternView{row: row, start: start, length: length}
}

// IsValid reports whether the view's bounds are within its row.
func (v *PatternView) IsValid() bool {
	return v.start >= 0 && v.length >= 0 && v.start+v.length <= len(v.row.Widths)
}

// Len returns the number of runs in the view.
func (v *PatternView) Len() int { return v.length }

// At returns the width of the i-th run in the view.
func (v *PatternView) At(i int) uint16 { return v.row.Widths[v.start+i] }

// Sum returns the total width covered by the view.
func (v *PatternView) Sum() int {
	total := 0
	for i := 0; i < v.length; i++ {
		total += int(v.At(i))
	}
	return total
}

// Shift returns a new view moved by delta runs (can be negative).
func (v *PatternView) Shift(delta int) *PatternView {
	return &PatternView{row: v.row, start: v.start + delta, length: v.length}
}

// Extend returns a new view with its length grown or shrunk by delta runs.
func (v *PatternView) Extend(delta int) *PatternView {
	return &PatternView{row: v.row, start: v.start, length: v.length + delta}
}

// NormalizedPattern finds, for N observed run lengths summing approximately
// to a target SUM of module widths, the integer widths w_i >= 1 with
// sum(w_i) == SUM that minimize variance against the observed lengths
// (spec.md §4.4). The closed-form approach: compute unitWidth =
// sum(observed)/SUM, round each observed/unitWidth to the nearest integer,
// then nudge the single largest rounding error to restore the exact sum.
func NormalizedPattern(observed []int, sum int) []int {
	total := 0
	for _, o := range observed {
		total += o
	}
	if total == 0 || sum == 0 {
		result := make([]int, len(observed))
		for i := range result {
			result[i] = 1
		}
		return result
	}
	unitWidth := float64(total) / float64(sum)

	result := make([]int, len(observed))
	resultSum := 0
	worstIdx := 0
	worstError := -1.0
	for i, o := range observed {
		scaled := float64(o) / unitWidth
		rounded := math.Round(scaled)
		if rounded < 1 {
			rounded = 1
		}
		result[i] = int(rounded)
		resultSum += result[i]
		errAmt := math.Abs(scaled - rounded)
		if errAmt > worstError {
			worstError = errAmt
			worstIdx = i
		}
	}

	diff := sum - resultSum
	for diff != 0 {
		if diff > 0 {
			result[worstIdx]++
			diff--
		} else if result[worstIdx] > 1 {
			result[worstIdx]--
			diff++
		} else {
			// Can't shrink the worst slot below 1; move to the next-largest slot.
			best := -1
			for i, v := range result {
				if i != worstIdx && v > 1 {
					best = i
					break
				}
			}
			if best < 0 {
				break
			}
			worstIdx = best
		}
	}
	return result
}

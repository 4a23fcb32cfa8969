package netcalc

import (
	"slices"

	"lukechampine.com/uint128"
)

// Aggregate returns the minimal ascending list of aligned blocks whose union
// is exactly the union of intervals. The input slice is not modified.
func Aggregate(intervals []Interval, bitWidth int) []Block {
	return decompose(mergeIntervals(intervals), bitWidth)
}

// mergeIntervals sorts by (Start, End) and folds overlapping or adjacent
// intervals together. The result is sorted, disjoint and never adjacent.
func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, compareIntervals)

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if !touches(current, next) {
			merged = append(merged, current)
			current = next
			continue
		}
		if next.End.Cmp(current.End) > 0 {
			current.End = next.End
		}
	}
	return append(merged, current)
}

func compareIntervals(a, b Interval) int {
	if c := a.Start.Cmp(b.Start); c != 0 {
		return c
	}
	return a.End.Cmp(b.End)
}

// touches reports next.Start <= current.End+1 for next sorted after current.
func touches(current, next Interval) bool {
	if current.End.Equals(uint128.Max) {
		return true
	}
	return next.Start.Cmp(current.End.Add64(1)) <= 0
}

// subtractIntervals removes every address in exclude from include. Both
// inputs must be the output of mergeIntervals.
func subtractIntervals(include, exclude []Interval) []Interval {
	if len(exclude) == 0 {
		return include
	}

	out := make([]Interval, 0, len(include))
	j := 0
	for _, iv := range include {
		for j < len(exclude) && exclude[j].End.Cmp(iv.Start) < 0 {
			j++
		}

		start, open := iv.Start, true
		for k := j; k < len(exclude) && exclude[k].Start.Cmp(iv.End) <= 0; k++ {
			ex := exclude[k]
			if ex.Start.Cmp(start) > 0 {
				out = append(out, Interval{Start: start, End: ex.Start.Sub64(1)})
			}
			if ex.End.Cmp(iv.End) >= 0 {
				open = false
				break
			}
			start = ex.End.Add64(1)
		}
		if open {
			out = append(out, Interval{Start: start, End: iv.End})
		}
	}
	return out
}

// decompose splits each interval greedily into the largest aligned blocks
// that start at the cursor and stay within the interval.
func decompose(intervals []Interval, bitWidth int) []Block {
	blocks := make([]Block, 0, len(intervals))
	for _, iv := range intervals {
		cursor := iv.Start
		for {
			block := Block{Base: cursor, Prefix: bitWidth - largestBlockBits(cursor, iv.End, bitWidth)}
			blocks = append(blocks, block)

			last := block.Last(bitWidth)
			if last.Cmp(iv.End) >= 0 {
				break
			}
			cursor = last.Add64(1)
		}
	}
	return blocks
}

// largestBlockBits returns the largest k such that cursor is a multiple of
// 2^k and cursor+2^k-1 <= end.
func largestBlockBits(cursor, end Address, bitWidth int) int {
	aligned := min(cursor.TrailingZeros(), bitWidth)

	room := end.Sub(cursor)
	fits := bitWidth
	if !room.Equals(uint128.Max) {
		fits = room.Add64(1).Len() - 1
	}
	return min(aligned, fits)
}

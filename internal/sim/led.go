package sim

import "math"

// LitSegments returns floor((speed / maxSpeed) * segments), clamped to
// [0, segments].
func LitSegments(speed, maxSpeed float64, segments int) int {
	if segments <= 0 || maxSpeed <= 0 || speed <= 0 {
		return 0
	}
	n := int(math.Floor(speed / maxSpeed * float64(segments)))
	return min(n, segments)
}

// SegmentLit reports whether segment index is lit given active lit segments.
func SegmentLit(index, active int) bool {
	return index >= 0 && index < active
}

package app

import "time"

// BusyInterval is a half-open time range [Start, End) during which a bay is
// already reserved. Invariant: Start < End.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints (a ends exactly when b starts) do not overlap. Every overlap
// check in availability computation and bay assignment must go through
// this predicate.
func (b BusyInterval) Overlaps(o BusyInterval) bool {
	return b.Start.Before(o.End) && o.Start.Before(b.End)
}

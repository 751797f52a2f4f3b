package ledger

const (
	// multiplierBase is the full multiplier in basis points out of 1000.
	multiplierBase uint64 = 1000

	// multiplierFloor is reached at the ninth claim and kept thereafter.
	multiplierFloor uint64 = 100
)

// ReductionMultiplier maps the number of balance-scaled claims an account has
// already made to the multiplier applied to its next claim cap, out of 1000:
//
//	0 -> 1000, 1 -> 500, 2 -> 333, 3 -> 250, 4 -> 200, 9.. -> 100
func ReductionMultiplier(claims uint64) uint64 {
	if claims == 0 {
		return multiplierBase
	}
	// claims+1 would wrap at MaxUint64; the floor applies long before that.
	if claims >= multiplierBase {
		return multiplierFloor
	}
	m := multiplierBase / (claims + 1)
	if m < multiplierFloor {
		return multiplierFloor
	}
	return m
}

// applyMultiplier scales limit by the multiplier of the given claim count.
func applyMultiplier(limit, claims uint64) uint64 {
	return limit * ReductionMultiplier(claims) / multiplierBase
}

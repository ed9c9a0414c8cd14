package ink

// Fold applies signed cost adjustments to a printed cost. Negative
// adjustments are reductions; the result never drops below zero.
func Fold(base int, adjustments []int) int {
	cost := base
	for _, adj := range adjustments {
		cost += adj
	}
	if cost < 0 {
		return 0
	}
	return cost
}

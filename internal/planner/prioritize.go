package planner

import "sort"

// Prioritize returns the indices of bubbles in search order: fewest remaining
// hits first, then higher on screen (smaller Y) first. Equal keys keep their
// snapshot order. The input slice is not modified.
func Prioritize(bubbles []Bubble) []int {
	order := make([]int, len(bubbles))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := bubbles[order[i]], bubbles[order[j]]
		if a.HitCount != b.HitCount {
			return a.HitCount < b.HitCount
		}
		return a.Y < b.Y
	})

	return order
}

package services

import (
	"delivery-tracking-service/internal/domain"
	"math"
)

// OrderWaypoints plans a visiting order for intermediate stops using a
// greedy nearest-neighbor algorithm over haversine distance.
//
// The algorithm minimizes immediate travel distance at each step. It does
// not attempt global route optimization (e.g., TSP solvers): delivery stop
// counts are small, and determinism matters more than optimality here.
//
// The returned slice is a permutation of the original stop indices, never
// re-geocoded data. Zero or one stops return immediately. Ties are broken
// by input order: the first candidate at the minimum distance wins.
func OrderWaypoints(start domain.Location, stops []domain.Location) []int {
	switch len(stops) {
	case 0:
		return []int{}
	case 1:
		return []int{0}
	}

	visited := make([]bool, len(stops))
	order := make([]int, 0, len(stops))
	current := start

	for len(order) < len(stops) {
		best := -1
		minDist := math.MaxFloat64

		// Select next stop by minimum distance (greedy step).
		for i, stop := range stops {
			if visited[i] {
				continue
			}
			if d := domain.HaversineKm(current, stop); d < minDist {
				minDist = d
				best = i
			}
		}

		visited[best] = true
		order = append(order, best)
		current = stops[best]
	}

	return order
}

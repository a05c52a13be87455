package grading

// WeightedAverage computes sum(score*weight)/sum(weight) over n items,
// truncated to a whole percentage. An empty collection or an all-zero weight
// sum yields 0 rather than an error: "no data" averages to nothing.
//
// Truncation (not rounding) is deliberate and matches how single grades are
// rounded differently at resolution time.
func WeightedAverage(n int, score, weight func(i int) float64) float64 {
	var sum, weights float64
	for i := 0; i < n; i++ {
		sum += score(i) * weight(i)
		weights += weight(i)
	}
	if weights == 0 {
		return 0
	}
	return float64(int(sum / weights))
}

// TopScore returns the highest raw score among n items, 0 when empty.
func TopScore(n int, score func(i int) float64) float64 {
	var top float64
	for i := 0; i < n; i++ {
		if s := score(i); s > top {
			top = s
		}
	}
	return top
}

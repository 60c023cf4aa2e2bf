package vector

// SquaredL2 returns the squared Euclidean distance between a and b.
// Vectors of different length are treated as infinitely far apart.
func SquaredL2(a, b []float32) float64 {
	if len(a) != len(b) {
		return maxDistance
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

const maxDistance = 1e308

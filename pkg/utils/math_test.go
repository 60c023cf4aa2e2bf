package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	zero := []float32{0, 0}
	NormalizeL2(zero)
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestFloat64sToFloat32s(t *testing.T) {
	out := Float64sToFloat32s([]float64{0.5, -1, math.Pi})
	assert.Equal(t, []float32{0.5, -1, float32(math.Pi)}, out)
}

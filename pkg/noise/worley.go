package noise

import "math"

// DistanceFunction measures the distance between a sample point and a cell's
// feature point.
type DistanceFunction func(a, b []float64) float64

// Distance functions for Worley cell noise.
var (
	Euclidean DistanceFunction = func(a, b []float64) float64 {
		return math.Sqrt(EuclideanSquared(a, b))
	}
	EuclideanSquared DistanceFunction = func(a, b []float64) float64 {
		sum := 0.0
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return sum
	}
	Manhattan DistanceFunction = func(a, b []float64) float64 {
		sum := 0.0
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	}
	Chebyshev DistanceFunction = func(a, b []float64) float64 {
		max := 0.0
		for i := range a {
			if d := math.Abs(a[i] - b[i]); d > max {
				max = d
			}
		}
		return max
	}
)

// WorleyReturn selects what a Worley function reports for a sample point.
type WorleyReturn int

const (
	// WorleyDistance reports the distance to the nearest feature point,
	// rescaled so typical values fall in [-1, 1].
	WorleyDistance WorleyReturn = iota
	// WorleyValue reports a per-cell pseudo-random value in [-1, 1].
	WorleyValue
)

// NewWorley returns Worley (cellular) noise: each unit cell owns one feature
// point, and samples report either the distance to the nearest feature point
// or the owning cell's value.
func NewWorley(seed uint32, frequency float64, dist DistanceFunction, ret WorleyReturn, dims int) (Function, error) {
	if err := checkDimensions("worley", dims); err != nil {
		return nil, err
	}
	if dist == nil {
		dist = Euclidean
	}
	return &worleyNoise{seed: seed, frequency: frequency, dist: dist, ret: ret, dims: dims}, nil
}

type worleyNoise struct {
	seed      uint32
	frequency float64
	dist      DistanceFunction
	ret       WorleyReturn
	dims      int
}

func (w *worleyNoise) Eval(p []float64) float64 {
	var scaled [MaxDimensions]float64
	var cell [MaxDimensions]int64
	for i := 0; i < w.dims; i++ {
		scaled[i] = p[i] * w.frequency
		cell[i] = int64(math.Floor(scaled[i]))
	}

	best := math.MaxFloat64
	var bestCell [MaxDimensions]int64

	// Scan the 3^dims neighborhood around the sample's cell; the nearest
	// feature point is always within one cell of the sample.
	var neighbor [MaxDimensions]int64
	var scan func(axis int)
	scan = func(axis int) {
		if axis == w.dims {
			var feature [MaxDimensions]float64
			for i := 0; i < w.dims; i++ {
				feature[i] = float64(neighbor[i]) + featureOffset(w.seed, neighbor[:w.dims], i)
			}
			d := w.dist(scaled[:w.dims], feature[:w.dims])
			if d < best {
				best = d
				bestCell = neighbor
			}
			return
		}
		for delta := int64(-1); delta <= 1; delta++ {
			neighbor[axis] = cell[axis] + delta
			scan(axis + 1)
		}
	}
	scan(0)

	if w.ret == WorleyValue {
		return latticeValue(w.seed, bestCell[:w.dims])
	}
	// Nearest-feature distances for unit cells fall in [0, ~1.5]; center on 0.
	return math.Min(best, 1.5)*(4.0/3.0) - 1
}

// featureOffset positions a cell's feature point inside the unit cell,
// derived deterministically from the seed and cell coordinates.
func featureOffset(seed uint32, cell []int64, axis int) float64 {
	return (latticeValue(seed+uint32(axis)*0x85ebca6b+1, cell) + 1) / 2
}

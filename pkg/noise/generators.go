package noise

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Perlin lattice shape parameters. These match the conventional smoothing and
// frequency factors for go-perlin's improved-noise implementation.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// surfletSeedMix decorrelates the surflet variant from the plain Perlin
// lattice built from the same seed.
const surfletSeedMix = 0x9e3779b9

// NewPerlin returns classic Perlin gradient noise. Only 2-D and 3-D forms
// exist; requesting 4-D fails with UnsupportedDimensionError.
func NewPerlin(seed uint32, dims int) (Function, error) {
	return newPerlin("perlin", seed, dims)
}

// NewPerlinSurflet returns the surflet variant of Perlin noise. It shares the
// lattice generator with NewPerlin but uses a decorrelated seed so the two
// fields differ for equal inputs.
func NewPerlinSurflet(seed uint32, dims int) (Function, error) {
	return newPerlin("perlin surflet", seed^surfletSeedMix, dims)
}

func newPerlin(kind string, seed uint32, dims int) (Function, error) {
	if err := checkDimensions(kind, dims); err != nil {
		return nil, err
	}
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, int64(seed))
	switch dims {
	case 2:
		return Func(func(pt []float64) float64 { return p.Noise2D(pt[0], pt[1]) }), nil
	case 3:
		return Func(func(pt []float64) float64 { return p.Noise3D(pt[0], pt[1], pt[2]) }), nil
	default:
		return nil, &UnsupportedDimensionError{Kind: kind, Dimensions: dims}
	}
}

// NewOpenSimplex returns OpenSimplex noise in 2, 3, or 4 dimensions.
func NewOpenSimplex(seed uint32, dims int) (Function, error) {
	if err := checkDimensions("open simplex", dims); err != nil {
		return nil, err
	}
	return wrapSimplex(opensimplex.New(int64(seed)), dims), nil
}

// NewSimplex returns simplex noise normalized to [-1, 1].
func NewSimplex(seed uint32, dims int) (Function, error) {
	return newNormalizedSimplex("simplex", seed, dims)
}

// NewSuperSimplex returns the smoother super-simplex variant. It is backed by
// the same normalized lattice as NewSimplex with a decorrelated seed.
func NewSuperSimplex(seed uint32, dims int) (Function, error) {
	return newNormalizedSimplex("super simplex", seed^surfletSeedMix, dims)
}

func newNormalizedSimplex(kind string, seed uint32, dims int) (Function, error) {
	if err := checkDimensions(kind, dims); err != nil {
		return nil, err
	}
	n := opensimplex.NewNormalized(int64(seed))
	// NewNormalized yields [0, 1]; rescale to the package-wide [-1, 1] range.
	inner := wrapSimplex(n, dims)
	return Func(func(p []float64) float64 { return inner.Eval(p)*2 - 1 }), nil
}

func wrapSimplex(n opensimplex.Noise, dims int) Function {
	switch dims {
	case 2:
		return Func(func(p []float64) float64 { return n.Eval2(p[0], p[1]) })
	case 3:
		return Func(func(p []float64) float64 { return n.Eval3(p[0], p[1], p[2]) })
	default:
		return Func(func(p []float64) float64 { return n.Eval4(p[0], p[1], p[2], p[3]) })
	}
}

// NewValue returns value noise: pseudo-random values at integer lattice
// points, smoothly interpolated in between.
func NewValue(seed uint32, dims int) (Function, error) {
	if err := checkDimensions("value", dims); err != nil {
		return nil, err
	}
	return &valueNoise{seed: seed, dims: dims}, nil
}

type valueNoise struct {
	seed uint32
	dims int
}

func (v *valueNoise) Eval(p []float64) float64 {
	var cell [MaxDimensions]int64
	var frac [MaxDimensions]float64
	for i := 0; i < v.dims; i++ {
		f := math.Floor(p[i])
		cell[i] = int64(f)
		frac[i] = smoothstep(p[i] - f)
	}

	// Interpolate over the 2^dims lattice corners.
	result := 0.0
	corners := 1 << v.dims
	for c := 0; c < corners; c++ {
		weight := 1.0
		var corner [MaxDimensions]int64
		for i := 0; i < v.dims; i++ {
			if c&(1<<i) != 0 {
				corner[i] = cell[i] + 1
				weight *= frac[i]
			} else {
				corner[i] = cell[i]
				weight *= 1 - frac[i]
			}
		}
		result += weight * latticeValue(v.seed, corner[:v.dims])
	}
	return result
}

// NewCheckerboard returns a checkerboard pattern alternating between -1 and 1
// on unit cells scaled by 2^size.
func NewCheckerboard(size uint32) Function {
	scale := math.Exp2(float64(size))
	return Func(func(p []float64) float64 {
		sum := int64(0)
		for _, x := range p {
			sum += int64(math.Floor(x / scale))
		}
		if sum&1 == 0 {
			return -1
		}
		return 1
	})
}

// NewCylinders returns concentric cylinders around the first axis pair with
// the given frequency.
func NewCylinders(frequency float64) Function {
	return Func(func(p []float64) float64 {
		x := p[0] * frequency
		y := p[1] * frequency
		center := math.Sqrt(x*x + y*y)
		small := center - math.Floor(center)
		large := 1 - small
		nearest := math.Min(small, large)
		return 1 - nearest*4
	})
}

// NewConstant returns a function that evaluates to value everywhere.
func NewConstant(value float64) Function {
	return Func(func([]float64) float64 { return value })
}

// smoothstep is the quintic fade curve used for lattice interpolation.
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// latticeValue hashes a lattice corner to a deterministic value in [-1, 1].
func latticeValue(seed uint32, corner []int64) float64 {
	h := uint64(seed)*0x9e3779b97f4a7c15 + 0x2545f4914f6cdd1d
	for _, c := range corner {
		h ^= uint64(c) * 0xff51afd7ed558ccd
		h = (h ^ h>>33) * 0xc4ceb9fe1a85ec53
	}
	h ^= h >> 33
	// Map to [-1, 1].
	return float64(h>>11)/float64(1<<52) - 1
}

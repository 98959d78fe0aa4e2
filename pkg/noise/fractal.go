package noise

import "math"

// MaxOctaves bounds fractal octave counts. Constructors clamp requested
// octaves to [1, MaxOctaves].
const MaxOctaves = 32

// FractalParams are the shared knobs of the fractal cascades. Zero values
// are legal but degenerate; the graph adapter supplies sensible defaults.
type FractalParams struct {
	Seed        uint32
	Octaves     uint32
	Frequency   float64
	Lacunarity  float64
	Persistence float64
}

func (p FractalParams) octaves() int {
	o := int(p.Octaves)
	if o < 1 {
		o = 1
	}
	if o > MaxOctaves {
		o = MaxOctaves
	}
	return o
}

// buildOctaves constructs one independently-seeded source per octave.
func buildOctaves(newSource SourceFactory, seed uint32, count, dims int) ([]Function, error) {
	sources := make([]Function, count)
	for i := range sources {
		fn, err := newSource(seed+uint32(i), dims)
		if err != nil {
			return nil, err
		}
		sources[i] = fn
	}
	return sources, nil
}

// NewFbm returns fractal Brownian motion: octaves of the source summed with
// geometrically decaying amplitude and growing frequency.
func NewFbm(newSource SourceFactory, p FractalParams, dims int) (Function, error) {
	sources, err := buildOctaves(newSource, p.Seed, p.octaves(), dims)
	if err != nil {
		return nil, err
	}
	return Func(func(pt []float64) float64 {
		var sum, amplitude, total = 0.0, 1.0, 0.0
		freq := p.Frequency
		var scaled [MaxDimensions]float64
		for _, src := range sources {
			scalePoint(scaled[:dims], pt, freq)
			sum += src.Eval(scaled[:dims]) * amplitude
			total += amplitude
			amplitude *= p.Persistence
			freq *= p.Lacunarity
		}
		return sum / total
	}), nil
}

// NewBillow returns billowy noise: fbm over the absolute value of each
// octave, producing rounded, puffy ridges.
func NewBillow(newSource SourceFactory, p FractalParams, dims int) (Function, error) {
	sources, err := buildOctaves(newSource, p.Seed, p.octaves(), dims)
	if err != nil {
		return nil, err
	}
	return Func(func(pt []float64) float64 {
		var sum, amplitude, total = 0.0, 1.0, 0.0
		freq := p.Frequency
		var scaled [MaxDimensions]float64
		for _, src := range sources {
			scalePoint(scaled[:dims], pt, freq)
			sum += (math.Abs(src.Eval(scaled[:dims]))*2 - 1) * amplitude
			total += amplitude
			amplitude *= p.Persistence
			freq *= p.Lacunarity
		}
		return sum / total
	}), nil
}

// NewBasicMulti returns a multifractal where each octave is scaled by the
// running result, so detail concentrates in already-high regions.
func NewBasicMulti(newSource SourceFactory, p FractalParams, dims int) (Function, error) {
	sources, err := buildOctaves(newSource, p.Seed, p.octaves(), dims)
	if err != nil {
		return nil, err
	}
	return Func(func(pt []float64) float64 {
		var scaled [MaxDimensions]float64
		freq := p.Frequency
		scalePoint(scaled[:dims], pt, freq)
		result := sources[0].Eval(scaled[:dims])
		amplitude := p.Persistence
		for _, src := range sources[1:] {
			freq *= p.Lacunarity
			scalePoint(scaled[:dims], pt, freq)
			result += src.Eval(scaled[:dims]) * amplitude * clampUnit(result)
			amplitude *= p.Persistence
		}
		return clampUnit(result)
	}), nil
}

// NewHybridMulti returns a hybrid multifractal: octave contributions are
// weighted by the running product of previous signals.
func NewHybridMulti(newSource SourceFactory, p FractalParams, dims int) (Function, error) {
	sources, err := buildOctaves(newSource, p.Seed, p.octaves(), dims)
	if err != nil {
		return nil, err
	}
	return Func(func(pt []float64) float64 {
		var scaled [MaxDimensions]float64
		freq := p.Frequency
		scalePoint(scaled[:dims], pt, freq)
		result := sources[0].Eval(scaled[:dims])
		weight := result
		amplitude := p.Persistence
		for _, src := range sources[1:] {
			if weight > 1 {
				weight = 1
			}
			freq *= p.Lacunarity
			scalePoint(scaled[:dims], pt, freq)
			signal := src.Eval(scaled[:dims]) * amplitude
			result += weight * signal
			weight *= signal
			amplitude *= p.Persistence
		}
		return clampUnit(result)
	}), nil
}

// RidgedParams extends FractalParams with the attenuation applied to
// successive ridge weights.
type RidgedParams struct {
	FractalParams
	Attenuation float64
}

// NewRidgedMulti returns ridged multifractal noise: sharp creases built from
// inverted absolute octaves with weight feedback attenuated per octave.
func NewRidgedMulti(newSource SourceFactory, p RidgedParams, dims int) (Function, error) {
	sources, err := buildOctaves(newSource, p.Seed, p.octaves(), dims)
	if err != nil {
		return nil, err
	}
	attenuation := p.Attenuation
	if attenuation == 0 {
		attenuation = 2
	}
	return Func(func(pt []float64) float64 {
		var scaled [MaxDimensions]float64
		var sum, weight, amplitude = 0.0, 1.0, 1.0
		freq := p.Frequency
		for _, src := range sources {
			scalePoint(scaled[:dims], pt, freq)
			signal := 1 - math.Abs(src.Eval(scaled[:dims]))
			signal *= signal * weight
			weight = signal / attenuation
			if weight > 1 {
				weight = 1
			}
			if weight < 0 {
				weight = 0
			}
			sum += signal * amplitude
			amplitude *= p.Persistence
			freq *= p.Lacunarity
		}
		// Recenter the all-positive ridge sum onto [-1, 1].
		return sum*1.25 - 1
	}), nil
}

func scalePoint(dst, src []float64, factor float64) {
	for i := range dst {
		dst[i] = src[i] * factor
	}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

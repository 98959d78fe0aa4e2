package noise

import "math"

// NewScalePoint scales the input coordinate per axis before sampling the
// source. Axes beyond the function's dimensionality are ignored.
func NewScalePoint(source Function, axes [4]float64, dims int) Function {
	return Func(func(p []float64) float64 {
		var out [MaxDimensions]float64
		for i := 0; i < dims; i++ {
			out[i] = p[i] * axes[i]
		}
		return source.Eval(out[:dims])
	})
}

// NewTranslatePoint translates the input coordinate per axis before sampling
// the source.
func NewTranslatePoint(source Function, axes [4]float64, dims int) Function {
	return Func(func(p []float64) float64 {
		var out [MaxDimensions]float64
		for i := 0; i < dims; i++ {
			out[i] = p[i] + axes[i]
		}
		return source.Eval(out[:dims])
	})
}

// NewRotatePoint rotates the input coordinate before sampling the source.
// Angles are in degrees. In 2-D only the first angle applies (rotation in
// the xy plane); in 3-D and 4-D the first three angles rotate about the x, y,
// and z axes in that order, leaving any fourth component untouched.
func NewRotatePoint(source Function, angles [4]float64, dims int) Function {
	if dims == 2 {
		sin, cos := math.Sincos(angles[0] * math.Pi / 180)
		return Func(func(p []float64) float64 {
			out := []float64{p[0]*cos - p[1]*sin, p[0]*sin + p[1]*cos}
			return source.Eval(out)
		})
	}

	sinX, cosX := math.Sincos(angles[0] * math.Pi / 180)
	sinY, cosY := math.Sincos(angles[1] * math.Pi / 180)
	sinZ, cosZ := math.Sincos(angles[2] * math.Pi / 180)
	return Func(func(p []float64) float64 {
		var out [MaxDimensions]float64
		copy(out[:], p)
		x, y, z := out[0], out[1], out[2]
		// Rotate about x, then y, then z.
		y, z = y*cosX-z*sinX, y*sinX+z*cosX
		x, z = x*cosY+z*sinY, -x*sinY+z*cosY
		x, y = x*cosZ-y*sinZ, x*sinZ+y*cosZ
		out[0], out[1], out[2] = x, y, z
		return source.Eval(out[:dims])
	})
}

// NewTurbulence perturbs the input coordinate with one fbm distortion field
// per axis before sampling the source. Roughness is the octave count of each
// distortion field and power scales the displacement.
func NewTurbulence(source Function, newSource SourceFactory, seed uint32, frequency, power float64, roughness uint32, dims int) (Function, error) {
	distorters := make([]Function, dims)
	for i := range distorters {
		fn, err := NewFbm(newSource, FractalParams{
			Seed:        seed + uint32(i),
			Octaves:     roughness,
			Frequency:   frequency,
			Lacunarity:  2,
			Persistence: 0.5,
		}, dims)
		if err != nil {
			return nil, err
		}
		distorters[i] = fn
	}
	return Func(func(p []float64) float64 {
		var out [MaxDimensions]float64
		for i := 0; i < dims; i++ {
			out[i] = p[i] + distorters[i].Eval(p)*power
		}
		return source.Eval(out[:dims])
	}), nil
}

// NewDisplace offsets each axis of the input coordinate by the value of a
// displacement function before sampling the source. Axes beyond the
// dimensionality are ignored.
func NewDisplace(source Function, axes [4]Function, dims int) Function {
	return Func(func(p []float64) float64 {
		var out [MaxDimensions]float64
		for i := 0; i < dims; i++ {
			out[i] = p[i] + axes[i].Eval(p)
		}
		return source.Eval(out[:dims])
	})
}

package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/noisegraph/noisegraph/pkg/noise"
)

// Grid is a rectangular sampling of one compiled output: Width x Height
// values in row-major order, taken Scale world units apart starting at
// Origin. Grids marshal to JSON for caching and API responses.
type Grid struct {
	Output     string     `json:"output"`
	Dimensions int        `json:"dimensions"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Scale      float64    `json:"scale"`
	Origin     [4]float64 `json:"origin"`
	Values     []float64  `json:"values"`
}

// At returns the sampled value at grid cell (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.Values[y*g.Width+x]
}

// sampleGrid evaluates fn over the sampling window described by opts.
// The x axis maps to grid columns and the y axis to rows; the z and w
// origin components are held constant for higher dimensionalities.
func sampleGrid(fn noise.Function, output string, opts Options) *Grid {
	g := &Grid{
		Output:     output,
		Dimensions: opts.Dimensions,
		Width:      opts.Width,
		Height:     opts.Height,
		Scale:      opts.Scale,
		Origin:     opts.Origin,
		Values:     make([]float64, opts.Width*opts.Height),
	}

	p := make([]float64, opts.Dimensions)
	for i := 2; i < opts.Dimensions; i++ {
		p[i] = opts.Origin[i]
	}
	for y := 0; y < opts.Height; y++ {
		p[1] = opts.Origin[1] + float64(y)*opts.Scale
		for x := 0; x < opts.Width; x++ {
			p[0] = opts.Origin[0] + float64(x)*opts.Scale
			g.Values[y*opts.Width+x] = fn.Eval(p)
		}
	}
	return g
}

// MarshalGrid converts a grid to JSON bytes.
func MarshalGrid(g *Grid) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal grid: %w", err)
	}
	return data, nil
}

// UnmarshalGrid decodes a grid from JSON bytes and checks that the value
// count matches the declared size.
func UnmarshalGrid(data []byte) (*Grid, error) {
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}
	if len(g.Values) != g.Width*g.Height {
		return nil, fmt.Errorf("grid has %d values, expected %d", len(g.Values), g.Width*g.Height)
	}
	return &g, nil
}

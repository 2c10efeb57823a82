package spanrepr

import (
	"fmt"
	"math"
	"math/rand"
)

// projection is a dense affine layer applied to every token vector before
// pooling: out = W·x + b with W row-major [outDim, inDim].
type projection struct {
	weights []float32 // row-major [outDim, inDim]
	bias    []float32 // [outDim], nil for no bias
	inDim   int
	outDim  int
}

// newProjection builds the projection from whichever parameter source the
// options provide: explicit slices, a loaded weights file, or random
// initialization. Parameters are trained externally; this package only
// applies them.
func newProjection(inDim int, o options, stored map[string]tensor, rng *rand.Rand) (*projection, error) {
	outDim := o.projDim

	switch {
	case o.projWeights != nil:
		if len(o.projWeights) != outDim*inDim {
			return nil, fmt.Errorf("projection: weights have %d entries, want %d (%d x %d)",
				len(o.projWeights), outDim*inDim, outDim, inDim)
		}
		if o.projBias != nil && len(o.projBias) != outDim {
			return nil, fmt.Errorf("projection: bias has %d entries, want %d",
				len(o.projBias), outDim)
		}
		return &projection{weights: o.projWeights, bias: o.projBias, inDim: inDim, outDim: outDim}, nil

	case stored != nil:
		w, ok := stored["proj.weight"]
		if !ok {
			return nil, fmt.Errorf("projection: weights file missing tensor %q", "proj.weight")
		}
		if len(w.shape) != 2 || w.shape[0] != outDim || w.shape[1] != inDim {
			return nil, fmt.Errorf("projection: proj.weight shape %v, want [%d %d]",
				w.shape, outDim, inDim)
		}
		p := &projection{weights: w.data, inDim: inDim, outDim: outDim}
		if bias, ok := stored["proj.bias"]; ok {
			if len(bias.data) != outDim {
				return nil, fmt.Errorf("projection: proj.bias shape %v, want [%d]", bias.shape, outDim)
			}
			p.bias = bias.data
		}
		return p, nil

	default:
		return randomProjection(inDim, outDim, rng), nil
	}
}

// randomProjection initializes weights and bias uniformly in ±1/sqrt(inDim),
// the usual dense-layer default.
func randomProjection(inDim, outDim int, rng *rand.Rand) *projection {
	bound := 1 / float32(math.Sqrt(float64(inDim)))
	weights := make([]float32, outDim*inDim)
	for i := range weights {
		weights[i] = (2*rng.Float32() - 1) * bound
	}
	bias := make([]float32, outDim)
	for i := range bias {
		bias[i] = (2*rng.Float32() - 1) * bound
	}
	return &projection{weights: weights, bias: bias, inDim: inDim, outDim: outDim}
}

// apply projects a single vector from inDim to outDim.
func (p *projection) apply(vec []float32) []float32 {
	out := make([]float32, p.outDim)
	for i := 0; i < p.outDim; i++ {
		row := p.weights[i*p.inDim : (i+1)*p.inDim]
		var sum float32
		for j, w := range row {
			sum += w * vec[j]
		}
		if p.bias != nil {
			sum += p.bias[i]
		}
		out[i] = sum
	}
	return out
}

// applyBatch projects every inDim-wide row of a flat slice, returning a flat
// slice of outDim-wide rows.
func (p *projection) applyBatch(data []float32) []float32 {
	rows := len(data) / p.inDim
	out := make([]float32, rows*p.outDim)
	for r := 0; r < rows; r++ {
		vec := data[r*p.inDim : (r+1)*p.inDim]
		copy(out[r*p.outDim:(r+1)*p.outDim], p.apply(vec))
	}
	return out
}

package spanrepr

import (
	"fmt"
	"math"
	"math/rand"
)

// attnRepr pools the span with learned attention: a scalar score per
// position, span-masked, softmaxed over the sequence axis, then used as
// weights in a weighted sum of token vectors.
type attnRepr struct {
	base
	weights []float32 // scorer weights, one per (projected) channel
	bias    float32
}

func newAttnRepr(b base, o options, stored map[string]tensor, rng *rand.Rand) (*attnRepr, error) {
	width := int(b.width())
	r := &attnRepr{base: b}

	switch {
	case o.hasAttn:
		if len(o.attnWeights) != width {
			return nil, fmt.Errorf("spanrepr: attention weights have %d entries, want %d",
				len(o.attnWeights), width)
		}
		r.weights = o.attnWeights
		r.bias = o.attnBias

	case stored != nil:
		w, ok := stored["attn.weight"]
		if !ok {
			return nil, fmt.Errorf("spanrepr: weights file missing tensor %q", "attn.weight")
		}
		if len(w.data) != width {
			return nil, fmt.Errorf("spanrepr: attn.weight shape %v, want %d entries", w.shape, width)
		}
		r.weights = w.data
		if bias, ok := stored["attn.bias"]; ok {
			if len(bias.data) != 1 {
				return nil, fmt.Errorf("spanrepr: attn.bias shape %v, want 1 entry", bias.shape)
			}
			r.bias = bias.data[0]
		}

	default:
		r.weights, r.bias = randomScorer(width, rng)
	}

	return r, nil
}

// randomScorer initializes the scalar scorer uniformly in ±1/sqrt(width),
// matching the usual dense-layer default.
func randomScorer(width int, rng *rand.Rand) ([]float32, float32) {
	bound := 1 / float32(math.Sqrt(float64(width)))
	w := make([]float32, width)
	for i := range w {
		w[i] = (2*rng.Float32() - 1) * bound
	}
	return w, (2*rng.Float32() - 1) * bound
}

func (r *attnRepr) Forward(enc Encoded, startIDs, endIDs []int64) []float32 {
	data, width := r.project(enc)
	mask := spanMask(startIDs, endIDs, enc.BatchSize, enc.SeqLen)

	out := make([]float32, enc.BatchSize*width)
	for b := int64(0); b < enc.BatchSize; b++ {
		wts := r.attnWeights(enc, data, mask, width, b)
		acc := out[b*width : (b+1)*width]
		for s := int64(0); s < enc.SeqLen; s++ {
			w := wts[s]
			row := enc.row(data, width, b, s)
			for d, v := range row {
				acc[d] += w * v
			}
		}
	}
	return out
}

// attnWeights computes the softmax attention distribution over the sequence
// axis for batch element b. Out-of-span positions receive the additive
// mask-complement penalty before the softmax, so their weight is
// numerically negligible rather than exactly zero.
func (r *attnRepr) attnWeights(enc Encoded, data, mask []float32, width, b int64) []float32 {
	logits := make([]float32, enc.SeqLen)
	for s := int64(0); s < enc.SeqLen; s++ {
		row := enc.row(data, width, b, s)
		var score float32
		for d, v := range row {
			score += r.weights[d] * v
		}
		logits[s] = score + r.bias - maskPenalty*(1-mask[b*enc.SeqLen+s])
	}
	return softmax(logits)
}

// softmax computes a numerically stable softmax in place over logits.
func softmax(logits []float32) []float32 {
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	var sum float32
	for i, l := range logits {
		e := float32(math.Exp(float64(l - maxLogit)))
		logits[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range logits {
		logits[i] *= inv
	}
	return logits
}

func (r *attnRepr) OutputDim() int {
	return int(r.width())
}

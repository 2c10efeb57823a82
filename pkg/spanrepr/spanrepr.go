package spanrepr

import (
	"errors"
	"fmt"
	"math/rand"
)

// Encoded holds per-token encoder hidden states for a batch of sequences.
// Data is flat row-major: token (b, s) occupies Data[(b*SeqLen+s)*Dim :
// (b*SeqLen+s+1)*Dim].
type Encoded struct {
	Data      []float32
	BatchSize int64
	SeqLen    int64
	Dim       int64
}

// row returns the hidden-state vector of token s in batch element b, given
// the working data slice and its per-token width.
func (e Encoded) row(data []float32, width, b, s int64) []float32 {
	off := (b*e.SeqLen + s) * width
	return data[off : off+width]
}

// SpanRepr reduces a contiguous inclusive token span [start, end] to one
// fixed-size vector per batch element.
//
// Forward returns a flat [BatchSize * OutputDim()] float32 slice. Span
// boundaries are not validated: callers own the invariant
// 0 <= startIDs[b] <= endIDs[b] < enc.SeqLen. Out-of-range indices panic on
// slice bounds; a reversed span yields meaningless numbers.
type SpanRepr interface {
	Forward(enc Encoded, startIDs, endIDs []int64) []float32
	InputDim() int
	OutputDim() int
}

// ErrUnsupportedMethod is returned by New for an unrecognized method tag.
var ErrUnsupportedMethod = errors.New("unsupported span method")

// New constructs the span representation for the given method tag.
//
// Recognized methods:
//
//	mean      average of token vectors inside the span
//	max       per-channel maximum over the span
//	endpoint  [h_start; h_end]
//	diff_sum  [h_end - h_start; h_end + h_start]
//	attn      learned-attention weighted sum over the span
//
// Any other tag fails with ErrUnsupportedMethod before any computation.
func New(inputDim int, method string, opts ...Option) (SpanRepr, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var stored map[string]tensor
	if o.weightsPath != "" {
		var err error
		stored, err = loadTensors(o.weightsPath)
		if err != nil {
			return nil, fmt.Errorf("spanrepr: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(o.seed))
	b, err := newBase(inputDim, o, stored, rng)
	if err != nil {
		return nil, err
	}

	switch method {
	case "mean":
		return &meanRepr{b}, nil
	case "max":
		return &maxRepr{b}, nil
	case "diff_sum":
		return &diffSumRepr{b}, nil
	case "endpoint":
		return &endpointRepr{b}, nil
	case "attn":
		return newAttnRepr(b, o, stored, rng)
	default:
		return nil, fmt.Errorf("spanrepr: %w: %q", ErrUnsupportedMethod, method)
	}
}

// base carries the per-variant state shared by all pooling methods: the
// declared input width and the optional pre-pooling projection.
type base struct {
	inputDim int
	proj     *projection
}

func newBase(inputDim int, o options, stored map[string]tensor, rng *rand.Rand) (base, error) {
	b := base{inputDim: inputDim}
	if !o.useProj {
		return b, nil
	}
	proj, err := newProjection(inputDim, o, stored, rng)
	if err != nil {
		return base{}, fmt.Errorf("spanrepr: %w", err)
	}
	b.proj = proj
	return b, nil
}

// width is the per-token vector width after the optional projection. All
// output-dimension arithmetic builds on it.
func (b *base) width() int64 {
	if b.proj != nil {
		return int64(b.proj.outDim)
	}
	return int64(b.inputDim)
}

// project applies the optional projection and returns the working hidden
// states together with their per-token width.
func (b *base) project(enc Encoded) ([]float32, int64) {
	if b.proj == nil {
		return enc.Data, enc.Dim
	}
	return b.proj.applyBatch(enc.Data), int64(b.proj.outDim)
}

func (b *base) InputDim() int { return b.inputDim }

package spanrepr

// DefaultProjDim is the projection width used when WithProjection is given
// a non-positive dimension.
const DefaultProjDim = 256

type options struct {
	useProj     bool
	projDim     int
	projWeights []float32
	projBias    []float32
	attnWeights []float32
	attnBias    float32
	hasAttn     bool
	weightsPath string
	seed        int64
}

// Option configures a span representation built by New.
type Option func(*options)

// WithProjection enables a shared linear projection applied to every token
// vector before pooling. All downstream dimensions use projDim in place of
// the input dimension. A non-positive projDim selects DefaultProjDim.
func WithProjection(projDim int) Option {
	return func(o *options) {
		o.useProj = true
		if projDim > 0 {
			o.projDim = projDim
		}
	}
}

// WithProjectionWeights supplies explicit projection parameters: weights is
// row-major [projDim, inputDim], bias is [projDim] (nil for no bias).
// Implies nothing about WithProjection — enable it separately.
func WithProjectionWeights(weights, bias []float32) Option {
	return func(o *options) {
		o.projWeights = weights
		o.projBias = bias
	}
}

// WithAttentionWeights supplies explicit parameters for the "attn" method's
// scalar scorer: weights has one entry per (projected) channel.
func WithAttentionWeights(weights []float32, bias float32) Option {
	return func(o *options) {
		o.attnWeights = weights
		o.attnBias = bias
		o.hasAttn = true
	}
}

// WithWeightsFile loads parameters from a safetensors file. Recognized
// tensors: proj.weight [projDim, inputDim], proj.bias [projDim],
// attn.weight [width] (or [1, width]), attn.bias [1]. Explicit slice
// options take precedence over file contents.
func WithWeightsFile(path string) Option {
	return func(o *options) {
		o.weightsPath = path
	}
}

// WithSeed sets the seed for random parameter initialization, used when no
// explicit weights or weights file provide a parameter. Default 1.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func defaultOptions() options {
	return options{
		projDim: DefaultProjDim,
		seed:    1,
	}
}

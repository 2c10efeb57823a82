// Package spanrepr reduces contiguous token spans of transformer hidden
// states to fixed-size vectors.
//
// Given per-token encodings of shape [batch, seqLen, dim] and inclusive
// (start, end) boundaries per batch element, a SpanRepr produces one vector
// per element. Five pooling methods are available: "mean", "max",
// "diff_sum", "endpoint" and "attn".
//
//	repr, err := spanrepr.New(768, "max", spanrepr.WithProjection(256))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := repr.Forward(encoded, startIDs, endIDs)
//	// out is flat [batch * repr.OutputDim()]
//
// The package performs no boundary validation: callers own the invariant
// 0 <= start[b] <= end[b] < seqLen. See the README for the full formulas.
package spanrepr

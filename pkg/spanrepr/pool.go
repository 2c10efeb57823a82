package spanrepr

// meanRepr averages the token vectors inside the span.
type meanRepr struct {
	base
}

func (r *meanRepr) Forward(enc Encoded, startIDs, endIDs []int64) []float32 {
	data, width := r.project(enc)
	mask := spanMask(startIDs, endIDs, enc.BatchSize, enc.SeqLen)

	out := make([]float32, enc.BatchSize*width)
	for b := int64(0); b < enc.BatchSize; b++ {
		acc := out[b*width : (b+1)*width]
		for s := int64(0); s < enc.SeqLen; s++ {
			if mask[b*enc.SeqLen+s] == 0 {
				continue
			}
			row := enc.row(data, width, b, s)
			for d, v := range row {
				acc[d] += v
			}
		}
		// Span length is taken from the boundaries, not the mask count.
		inv := 1 / float32(endIDs[b]-startIDs[b]+1)
		for d := range acc {
			acc[d] *= inv
		}
	}
	return out
}

func (r *meanRepr) OutputDim() int {
	return int(r.width())
}

// maxRepr takes the per-channel maximum over the span. Out-of-span
// positions are pushed to an effectively negative-infinite value via the
// mask-complement penalty so they never win.
type maxRepr struct {
	base
}

func (r *maxRepr) Forward(enc Encoded, startIDs, endIDs []int64) []float32 {
	data, width := r.project(enc)
	mask := spanMask(startIDs, endIDs, enc.BatchSize, enc.SeqLen)

	out := make([]float32, enc.BatchSize*width)
	for b := int64(0); b < enc.BatchSize; b++ {
		acc := out[b*width : (b+1)*width]
		for s := int64(0); s < enc.SeqLen; s++ {
			m := mask[b*enc.SeqLen+s]
			row := enc.row(data, width, b, s)
			for d, v := range row {
				masked := v*m - maskPenalty*(1-m)
				if s == 0 || masked > acc[d] {
					acc[d] = masked
				}
			}
		}
	}
	return out
}

func (r *maxRepr) OutputDim() int {
	return int(r.width())
}

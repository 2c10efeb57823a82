package spanrepr

// endpointRepr concatenates the boundary token vectors: [h_start; h_end].
// Interior span content is ignored.
type endpointRepr struct {
	base
}

func (r *endpointRepr) Forward(enc Encoded, startIDs, endIDs []int64) []float32 {
	data, width := r.project(enc)

	out := make([]float32, enc.BatchSize*2*width)
	for b := int64(0); b < enc.BatchSize; b++ {
		acc := out[b*2*width : (b+1)*2*width]
		copy(acc[:width], enc.row(data, width, b, startIDs[b]))
		copy(acc[width:], enc.row(data, width, b, endIDs[b]))
	}
	return out
}

func (r *endpointRepr) OutputDim() int {
	return int(2 * r.width())
}

// diffSumRepr concatenates the difference and sum of the boundary token
// vectors: [h_end - h_start; h_end + h_start].
type diffSumRepr struct {
	base
}

func (r *diffSumRepr) Forward(enc Encoded, startIDs, endIDs []int64) []float32 {
	data, width := r.project(enc)

	out := make([]float32, enc.BatchSize*2*width)
	for b := int64(0); b < enc.BatchSize; b++ {
		acc := out[b*2*width : (b+1)*2*width]
		start := enc.row(data, width, b, startIDs[b])
		end := enc.row(data, width, b, endIDs[b])
		for d := int64(0); d < width; d++ {
			acc[d] = end[d] - start[d]
			acc[width+d] = end[d] + start[d]
		}
	}
	return out
}

func (r *diffSumRepr) OutputDim() int {
	return int(2 * r.width())
}

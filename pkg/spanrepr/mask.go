package spanrepr

// maskPenalty is the additive penalty that suppresses out-of-span positions
// before a max or softmax. A large finite constant rather than -Inf: an
// infinity multiplied by a zero mask entry would propagate NaN.
const maskPenalty = float32(1e10)

// spanMask builds a flat [batchSize * seqLen] {0,1} mask where entry
// (b, p) is 1 iff startIDs[b] <= p <= endIDs[b]. Rebuilt on every call,
// never cached. Pure function of its inputs.
func spanMask(startIDs, endIDs []int64, batchSize, seqLen int64) []float32 {
	mask := make([]float32, batchSize*seqLen)
	for b := int64(0); b < batchSize; b++ {
		row := mask[b*seqLen : (b+1)*seqLen]
		for p := startIDs[b]; p <= endIDs[b] && p < seqLen; p++ {
			if p < 0 {
				continue
			}
			row[p] = 1
		}
	}
	return mask
}

// Package encoder produces per-token transformer hidden states from raw
// text, using a local BERT-style ONNX model and a WordPiece tokenizer. Its
// output feeds directly into pkg/spanrepr.
package encoder

import (
	"fmt"

	"github.com/crimson-sun/spanrepr/pkg/spanrepr"
)

// Encoder turns text into per-token hidden states.
type Encoder struct {
	session *onnxSession
	tok     *tokenizer
}

// New loads the ONNX model and vocabulary. Expensive; create once and reuse.
func New(modelPath, vocabPath string) (*Encoder, error) {
	sess, err := newONNXSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	tok, err := newTokenizer(vocabPath)
	if err != nil {
		sess.close()
		return nil, fmt.Errorf("encoder: %w", err)
	}

	return &Encoder{session: sess, tok: tok}, nil
}

// HiddenDim returns the per-token hidden-state width of the loaded model.
func (e *Encoder) HiddenDim() int {
	return int(e.session.hiddenDim)
}

// Encode tokenizes the texts, runs the model, and returns hidden states of
// shape [len(texts), seqLen, HiddenDim()] together with the real
// (non-padding) token count of each sequence, [CLS] and [SEP] included.
// Span boundaries handed to a SpanRepr must stay below the corresponding
// real length.
func (e *Encoder) Encode(texts []string) (spanrepr.Encoded, []int, error) {
	if len(texts) == 0 {
		return spanrepr.Encoded{}, nil, nil
	}

	b := e.tok.tokenizeBatch(texts)
	hidden, err := e.session.infer(
		b.inputIDs, b.attentionMask, b.tokenTypeIDs,
		b.batchSize, b.seqLen,
	)
	if err != nil {
		return spanrepr.Encoded{}, nil, fmt.Errorf("encoder: %w", err)
	}

	enc := spanrepr.Encoded{
		Data:      hidden,
		BatchSize: b.batchSize,
		SeqLen:    b.seqLen,
		Dim:       e.session.hiddenDim,
	}
	return enc, b.lens, nil
}

// Close releases the ONNX Runtime resources.
func (e *Encoder) Close() error {
	if e.session != nil {
		return e.session.close()
	}
	return nil
}

package encoder

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxSeqLen caps tokenized sequences, [CLS] and [SEP] included.
const maxSeqLen = 128

// tokenBatch holds tokenized input ready for inference. The three ID slices
// are flat [batchSize * seqLen], padded to the longest sequence in the
// batch; lens records the real (non-padding) token count per sequence.
type tokenBatch struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
	batchSize     int64
	seqLen        int64
	lens          []int
}

// tokenizer performs BERT-style WordPiece tokenization.
type tokenizer struct {
	vocab *vocab
}

func newTokenizer(vocabPath string) (*tokenizer, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	return &tokenizer{vocab: v}, nil
}

// tokenize converts one text into token IDs wrapped in [CLS]/[SEP] and
// truncated to maxSeqLen. The result is unpadded; its length varies with
// the text.
func (t *tokenizer) tokenize(text string) []int64 {
	tokens := t.wordpiece(t.basicTokenize(text))
	if len(tokens) > maxSeqLen-2 {
		tokens = tokens[:maxSeqLen-2]
	}

	ids := make([]int64, 0, len(tokens)+2)
	ids = append(ids, t.vocab.clsID)
	for _, tok := range tokens {
		ids = append(ids, t.vocab.lookup(tok))
	}
	return append(ids, t.vocab.sepID)
}

// tokenizeBatch tokenizes the texts and packs them into flat slices padded
// with [PAD] to the longest sequence in the batch.
func (t *tokenizer) tokenizeBatch(texts []string) tokenBatch {
	n := len(texts)
	if n == 0 {
		return tokenBatch{}
	}

	seqs := make([][]int64, n)
	lens := make([]int, n)
	maxLen := 0
	for i, text := range texts {
		seqs[i] = t.tokenize(text)
		lens[i] = len(seqs[i])
		if lens[i] > maxLen {
			maxLen = lens[i]
		}
	}

	batchSize := int64(n)
	seqLen := int64(maxLen)
	total := batchSize * seqLen

	b := tokenBatch{
		inputIDs:      make([]int64, total),
		attentionMask: make([]int64, total),
		tokenTypeIDs:  make([]int64, total), // single-segment input, all zeros
		batchSize:     batchSize,
		seqLen:        seqLen,
		lens:          lens,
	}
	for i, seq := range seqs {
		off := int64(i) * seqLen
		copy(b.inputIDs[off:], seq)
		for p := range seq {
			b.attentionMask[off+int64(p)] = 1
		}
		for p := int64(len(seq)); p < seqLen; p++ {
			b.inputIDs[off+p] = t.vocab.padID
		}
	}
	return b
}

// basicTokenize applies BERT's BasicTokenizer: clean, isolate CJK
// characters, lowercase, strip accents, split on whitespace and punctuation.
func (t *tokenizer) basicTokenize(text string) []string {
	text = stripAccents(strings.ToLower(normalize(text)))

	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitOnPunctuation(word)...)
	}
	return tokens
}

// wordpiece decomposes basic tokens into subwords via greedy longest-match,
// prefixing continuations with "##". A token with no decomposition maps to
// a single [UNK].
func (t *tokenizer) wordpiece(tokens []string) []string {
	var result []string
	for _, token := range tokens {
		if token == "" {
			continue
		}
		result = append(result, t.wordpieceToken(token)...)
	}
	return result
}

func (t *tokenizer) wordpieceToken(token string) []string {
	runes := []rune(token)
	if len(runes) > 200 {
		return []string{"[UNK]"}
	}

	var subTokens []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.contains(sub) {
				subTokens = append(subTokens, sub)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{"[UNK]"}
		}
		start = end
	}
	return subTokens
}

// normalize removes control characters, collapses whitespace runes to
// spaces, and surrounds CJK ideographs with spaces so they tokenize
// individually.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		switch {
		case r == 0 || r == 0xFFFD || isControl(r):
			// dropped
		case isWhitespace(r):
			b.WriteRune(' ')
		case isChineseChar(r):
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripAccents removes combining marks after NFD normalization.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitOnPunctuation splits a word at punctuation, keeping each punctuation
// character as its own token.
func splitOnPunctuation(word string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range word {
		if isPunctuation(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Character classes below match BERT's reference tokenizer.

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isPunctuation(r rune) bool {
	// ASCII ranges 33-47, 58-64, 91-96, 123-126 count as punctuation even
	// where Unicode disagrees (e.g. '$', '+').
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isChineseChar(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}

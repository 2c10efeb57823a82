// Command spanrepr is an end-to-end demonstration: it encodes a sentence
// with a local BERT-style ONNX model, pools the span of word tokens with
// the configured method, and prints the resulting vector.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/crimson-sun/spanrepr/internal/config"
	"github.com/crimson-sun/spanrepr/internal/encoder"
	"github.com/crimson-sun/spanrepr/internal/logging"
	"github.com/crimson-sun/spanrepr/pkg/spanrepr"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.ParseLevel(cfg.Logging.Level))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	text := "Hello beautiful world!"
	if len(os.Args) > 1 {
		text = strings.Join(os.Args[1:], " ")
	}

	enc, err := encoder.New(cfg.Encoder.ModelPath, cfg.Encoder.VocabPath)
	if err != nil {
		slog.Error("failed to create encoder", "err", err)
		os.Exit(1)
	}
	defer enc.Close()

	encoded, lens, err := enc.Encode([]string{text})
	if err != nil {
		slog.Error("encoding failed", "err", err)
		os.Exit(1)
	}
	slog.Info("encoded input",
		"text", text,
		"seq_len", encoded.SeqLen,
		"hidden_dim", encoded.Dim,
	)

	var opts []spanrepr.Option
	if cfg.Span.UseProj {
		opts = append(opts, spanrepr.WithProjection(cfg.Span.ProjDim))
	}
	if cfg.Span.WeightsPath != "" {
		opts = append(opts, spanrepr.WithWeightsFile(cfg.Span.WeightsPath))
	}

	repr, err := spanrepr.New(enc.HiddenDim(), cfg.Span.Method, opts...)
	if err != nil {
		slog.Error("failed to create span representation", "err", err)
		os.Exit(1)
	}

	// Pool the word tokens, excluding [CLS] and [SEP].
	start, end := int64(1), int64(lens[0]-2)
	out := repr.Forward(encoded, []int64{start}, []int64{end})
	slog.Info("pooled span",
		"method", cfg.Span.Method,
		"start", start,
		"end", end,
		"output_dim", repr.OutputDim(),
	)

	preview := out
	if len(preview) > 8 {
		preview = preview[:8]
	}
	fmt.Printf("span vector (%d dims), first values: %v\n", repr.OutputDim(), preview)
}

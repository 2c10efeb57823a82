package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config holds all settings for the spanrepr demo binary.
type Config struct {
	Encoder EncoderConfig
	Span    SpanConfig
	Logging LoggingConfig
}

// EncoderConfig locates the ONNX model and vocabulary files.
type EncoderConfig struct {
	ModelPath string
	VocabPath string
}

// SpanConfig selects and parameterizes the span representation.
type SpanConfig struct {
	Method      string // "mean", "max", "diff_sum", "endpoint", "attn"
	UseProj     bool
	ProjDim     int
	WeightsPath string // optional safetensors file, "" for random init
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Encoder: EncoderConfig{
			ModelPath: getenv("SPANREPR_MODEL_PATH", "models/model.onnx"),
			VocabPath: getenv("SPANREPR_VOCAB_PATH", "models/vocab.txt"),
		},
		Span: SpanConfig{
			Method:      getenv("SPANREPR_METHOD", "mean"),
			UseProj:     getenvBool("SPANREPR_USE_PROJ", false),
			ProjDim:     getenvInt("SPANREPR_PROJ_DIM", 256),
			WeightsPath: os.Getenv("SPANREPR_WEIGHTS_PATH"),
		},
		Logging: LoggingConfig{
			Level: getenv("SPANREPR_LOG_LEVEL", "info"),
		},
	}
}

// validMethods mirrors the tags the spanrepr factory accepts.
var validMethods = map[string]bool{
	"mean":     true,
	"max":      true,
	"diff_sum": true,
	"endpoint": true,
	"attn":     true,
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if !validMethods[c.Span.Method] {
		errs = append(errs, fmt.Errorf("unknown method %q (want mean, max, diff_sum, endpoint or attn)", c.Span.Method))
	}
	if c.Span.UseProj && c.Span.ProjDim <= 0 {
		errs = append(errs, fmt.Errorf("projection dim must be positive, got %d", c.Span.ProjDim))
	}
	if _, err := os.Stat(c.Encoder.ModelPath); err != nil {
		errs = append(errs, fmt.Errorf("model file: %w", err))
	}
	if _, err := os.Stat(c.Encoder.VocabPath); err != nil {
		errs = append(errs, fmt.Errorf("vocab file: %w", err))
	}
	if c.Span.WeightsPath != "" {
		if _, err := os.Stat(c.Span.WeightsPath); err != nil {
			errs = append(errs, fmt.Errorf("weights file: %w", err))
		}
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

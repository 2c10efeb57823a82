package spanrepr

import (
	"errors"
	"math"
	"testing"
)

// gridEncoded builds the fixed regression input: sequential values 0..19
// as a [1, 5, 4] batch. Row p is [4p, 4p+1, 4p+2, 4p+3].
func gridEncoded() Encoded {
	data := make([]float32, 20)
	for i := range data {
		data[i] = float32(i)
	}
	return Encoded{Data: data, BatchSize: 1, SeqLen: 5, Dim: 4}
}

func closeEnough(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func checkVec(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if !closeEnough(got[i], want[i]) {
			t.Fatalf("value mismatch at %d\n  want: %v\n  got:  %v", i, want, got)
		}
	}
}

func TestNewUnsupportedMethod(t *testing.T) {
	for _, method := range []string{"bogus", "avg", "MEAN", ""} {
		_, err := New(768, method)
		if err == nil {
			t.Fatalf("New(%q): expected error, got nil", method)
		}
		if !errors.Is(err, ErrUnsupportedMethod) {
			t.Fatalf("New(%q): expected ErrUnsupportedMethod, got: %v", method, err)
		}
	}
}

func TestOutputDims(t *testing.T) {
	tests := []struct {
		method  string
		useProj bool
		wantDim int
	}{
		{"mean", false, 768},
		{"mean", true, 256},
		{"max", false, 768},
		{"max", true, 256},
		{"attn", false, 768},
		{"attn", true, 256},
		{"endpoint", false, 1536},
		{"endpoint", true, 512},
		{"diff_sum", false, 1536},
		{"diff_sum", true, 512},
	}

	for _, tt := range tests {
		var opts []Option
		if tt.useProj {
			opts = append(opts, WithProjection(256))
		}
		repr, err := New(768, tt.method, opts...)
		if err != nil {
			t.Fatalf("New(%q, useProj=%v) failed: %v", tt.method, tt.useProj, err)
		}
		if got := repr.OutputDim(); got != tt.wantDim {
			t.Errorf("%s (useProj=%v): OutputDim() = %d, want %d",
				tt.method, tt.useProj, got, tt.wantDim)
		}
		if got := repr.InputDim(); got != 768 {
			t.Errorf("%s: InputDim() = %d, want 768", tt.method, got)
		}
	}
}

func TestDefaultProjDim(t *testing.T) {
	repr, err := New(768, "mean", WithProjection(0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if repr.OutputDim() != DefaultProjDim {
		t.Errorf("OutputDim() = %d, want %d", repr.OutputDim(), DefaultProjDim)
	}
}

// identityOpts configures a projection that is the identity map, so pooled
// outputs can be checked against the unprojected fixtures.
func identityOpts(dim int) []Option {
	w := make([]float32, dim*dim)
	for i := 0; i < dim; i++ {
		w[i*dim+i] = 1
	}
	return []Option{WithProjection(dim), WithProjectionWeights(w, nil)}
}

func TestForwardWithIdentityProjection(t *testing.T) {
	enc := gridEncoded()
	start, end := []int64{1}, []int64{3}

	for _, method := range []string{"mean", "max", "endpoint", "diff_sum"} {
		plain, err := New(4, method)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", method, err)
		}
		projected, err := New(4, method, identityOpts(4)...)
		if err != nil {
			t.Fatalf("New(%q, identity proj) failed: %v", method, err)
		}
		checkVec(t, projected.Forward(enc, start, end), plain.Forward(enc, start, end))
	}
}

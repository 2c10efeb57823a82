package spanrepr

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeSafetensors writes a minimal safetensors file holding the given F32
// tensors, in the declared order.
func writeSafetensors(t *testing.T, path string, names []string, tensors map[string]tensor) {
	t.Helper()

	type entry struct {
		Dtype       string `json:"dtype"`
		Shape       []int  `json:"shape"`
		DataOffsets [2]int `json:"data_offsets"`
	}
	header := make(map[string]entry, len(tensors))
	offset := 0
	for _, name := range names {
		n := len(tensors[name].data) * 4
		header[name] = entry{
			Dtype:       "F32",
			Shape:       tensors[name].shape,
			DataOffsets: [2]int{offset, offset + n},
		}
		offset += n
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("failed to marshal header: %v", err)
	}

	buf := make([]byte, 8, 8+len(headerJSON)+offset)
	binary.LittleEndian.PutUint64(buf, uint64(len(headerJSON)))
	buf = append(buf, headerJSON...)
	for _, name := range names {
		for _, v := range tensors[name].data {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadTensors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.safetensors")
	want := map[string]tensor{
		"proj.weight": {shape: []int{2, 3}, data: []float32{1, 2, 3, 4, 5, 6}},
		"proj.bias":   {shape: []int{2}, data: []float32{-1, 0.5}},
	}
	writeSafetensors(t, path, []string{"proj.weight", "proj.bias"}, want)

	got, err := loadTensors(path)
	if err != nil {
		t.Fatalf("loadTensors failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tensors, got %d", len(want), len(got))
	}
	for name, w := range want {
		g, ok := got[name]
		if !ok {
			t.Fatalf("missing tensor %q", name)
		}
		if len(g.shape) != len(w.shape) {
			t.Fatalf("tensor %q: shape %v, want %v", name, g.shape, w.shape)
		}
		checkVec(t, g.data, w.data)
	}
}

func TestLoadTensorsMissingFile(t *testing.T) {
	if _, err := loadTensors("/nonexistent/weights.safetensors"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadTensorsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.safetensors")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadTensors(path); err == nil {
		t.Fatal("expected error for truncated file")
	}
}

func TestLoadTensorsWrongDtype(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f16.safetensors")
	headerJSON := []byte(`{"w":{"dtype":"F16","shape":[1],"data_offsets":[0,2]}}`)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(len(headerJSON)))
	buf = append(buf, headerJSON...)
	buf = append(buf, 0, 0)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadTensors(path); err == nil {
		t.Fatal("expected error for non-F32 dtype")
	}
}

func TestNewWithWeightsFile(t *testing.T) {
	// Identity projection plus a zero attention scorer loaded from disk: the
	// attention output must match a plain mean over the span.
	path := filepath.Join(t.TempDir(), "weights.safetensors")
	identity := make([]float32, 4*4)
	for i := 0; i < 4; i++ {
		identity[i*4+i] = 1
	}
	writeSafetensors(t, path,
		[]string{"proj.weight", "proj.bias", "attn.weight", "attn.bias"},
		map[string]tensor{
			"proj.weight": {shape: []int{4, 4}, data: identity},
			"proj.bias":   {shape: []int{4}, data: make([]float32, 4)},
			"attn.weight": {shape: []int{1, 4}, data: make([]float32, 4)},
			"attn.bias":   {shape: []int{1}, data: []float32{0}},
		})

	attn, err := New(4, "attn", WithProjection(4), WithWeightsFile(path))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	mean, err := New(4, "mean")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	enc := gridEncoded()
	checkVec(t,
		attn.Forward(enc, []int64{1}, []int64{3}),
		mean.Forward(enc, []int64{1}, []int64{3}))
}

func TestNewWithWeightsFileShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.safetensors")
	writeSafetensors(t, path, []string{"proj.weight"}, map[string]tensor{
		"proj.weight": {shape: []int{3, 4}, data: make([]float32, 12)},
	})

	if _, err := New(4, "mean", WithProjection(2), WithWeightsFile(path)); err == nil {
		t.Fatal("expected error for proj.weight shape [3 4] with projDim 2")
	}
}

package spanrepr

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// tensor is one named array read from a safetensors file.
type tensor struct {
	shape []int
	data  []float32
}

// loadTensors reads every F32 tensor from a safetensors file: an 8-byte LE
// header length, a JSON header mapping names to dtype/shape/offsets, then
// the raw little-endian tensor data.
func loadTensors(path string) (map[string]tensor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("safetensors: %w", err)
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("safetensors: file too small: %d bytes", len(raw))
	}

	headerLen := binary.LittleEndian.Uint64(raw[:8])
	if uint64(len(raw)) < 8+headerLen {
		return nil, fmt.Errorf("safetensors: header length %d exceeds file size", headerLen)
	}

	var header map[string]json.RawMessage
	if err := json.Unmarshal(raw[8:8+headerLen], &header); err != nil {
		return nil, fmt.Errorf("safetensors: failed to parse header: %w", err)
	}

	dataStart := int(8 + headerLen)
	tensors := make(map[string]tensor, len(header))
	for name, entry := range header {
		if name == "__metadata__" {
			continue
		}

		var meta struct {
			Dtype       string `json:"dtype"`
			Shape       []int  `json:"shape"`
			DataOffsets [2]int `json:"data_offsets"`
		}
		if err := json.Unmarshal(entry, &meta); err != nil {
			return nil, fmt.Errorf("safetensors: tensor %q: %w", name, err)
		}
		if meta.Dtype != "F32" {
			return nil, fmt.Errorf("safetensors: tensor %q: expected dtype F32, got %s", name, meta.Dtype)
		}

		count := 1
		for _, s := range meta.Shape {
			count *= s
		}
		begin := dataStart + meta.DataOffsets[0]
		end := dataStart + meta.DataOffsets[1]
		if end-begin != count*4 {
			return nil, fmt.Errorf("safetensors: tensor %q: data size %d doesn't match shape %v",
				name, end-begin, meta.Shape)
		}
		if begin < dataStart || end > len(raw) {
			return nil, fmt.Errorf("safetensors: tensor %q: data range [%d:%d] exceeds file size %d",
				name, begin, end, len(raw))
		}

		data := make([]float32, count)
		for i := range data {
			bits := binary.LittleEndian.Uint32(raw[begin+i*4 : begin+i*4+4])
			data[i] = math.Float32frombits(bits)
		}
		tensors[name] = tensor{shape: meta.Shape, data: data}
	}

	return tensors, nil
}

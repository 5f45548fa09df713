package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Vector file layout, little-endian: uint32 dimension, uint32 count,
// then count*dimension IEEE 754 float32 values.

func encodeVectors(dim int, vectors [][]float32) []byte {
	out := make([]byte, 8+4*dim*len(vectors))
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(vectors)))
	off := 8
	for _, vec := range vectors {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
			off += 4
		}
	}
	return out
}

func decodeVectors(data []byte) (int, [][]float32, error) {
	if len(data) < 8 {
		return 0, nil, errors.New("truncated header")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	if dim <= 0 || n < 0 {
		return 0, nil, fmt.Errorf("invalid header: dim=%d n=%d", dim, n)
	}
	want := 8 + 4*dim*n
	if len(data) != want {
		return 0, nil, fmt.Errorf("expected %d bytes for %d vectors of dim %d, got %d", want, n, dim, len(data))
	}
	off := 8
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}

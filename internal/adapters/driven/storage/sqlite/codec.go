package sqlite

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// encodeVector converts a []float32 to a little-endian blob.
func encodeVector(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector converts a blob back to []float32. Trailing bytes are ignored.
func decodeVector(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// encodeJSON marshals v, using fallback for nil values.
func encodeJSON(v any, fallback string) (string, error) {
	if v == nil {
		return fallback, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling json: %w", err)
	}
	if string(data) == "null" {
		return fallback, nil
	}
	return string(data), nil
}

// decodeJSON unmarshals a stored column into dst. Empty columns are left zero.
func decodeJSON(data string, dst any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("unmarshaling json: %w", err)
	}
	return nil
}

package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecode_ValidPayloads(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0xFF, 0xD9}
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name     string
		payload  string
		expected []byte
	}{
		{"jpeg data uri", "data:image/jpeg;base64," + encoded, raw},
		{"bare metadata", "x," + encoded, raw},
		{"empty metadata", "," + encoded, raw},
		{"empty body", "data:image/png;base64,", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.payload)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDecode_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"no comma", "bad-payload-no-comma"},
		{"raw base64 without prefix", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"invalid base64", "data:image/jpeg;base64,@@@not-base64@@@"},
		{"second comma in body", "data:image/jpeg;base64,aGVs,bG8="},
		{"truncated padding", "data:image/jpeg;base64,aGVsbG8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

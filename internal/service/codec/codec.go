// Package codec decodes the data-URI style image payloads sent by clients.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload is returned when a payload has no comma separator or
// the part after it is not valid base64.
var ErrMalformedPayload = errors.New("malformed image payload")

// Decode returns the raw bytes of a "<metadata>,<base64>" payload.
// Only the text after the first comma is decoded.
func Decode(payload string) ([]byte, error) {
	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return nil, fmt.Errorf("%w: missing ',' separator", ErrMalformedPayload)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return data, nil
}

// Package encoding renders response bodies as JSON or CBOR.
package encoding

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// Format is a response body encoding.
type Format int

const (
	JSON Format = iota
	CBOR
)

// ContentType returns the media type for f.
func (f Format) ContentType() string {
	if f == CBOR {
		return ContentTypeCBOR
	}
	return ContentTypeJSON
}

// MarshalCBOR encodes data to CBOR format
func MarshalCBOR(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

// UnmarshalCBOR decodes CBOR data
func UnmarshalCBOR(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// Marshal encodes v in format f.
func Marshal(f Format, v any) ([]byte, error) {
	if f == CBOR {
		return MarshalCBOR(v)
	}
	return json.Marshal(v)
}

// Negotiate picks CBOR only when the Accept header explicitly lists it
// ahead of JSON; anything else gets JSON.
func Negotiate(accept string) Format {
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case ContentTypeCBOR:
			return CBOR
		case ContentTypeJSON:
			return JSON
		}
	}
	return JSON
}

// Write encodes v in format f and writes it with the given status.
func Write(w http.ResponseWriter, f Format, status int, v any) error {
	body, err := Marshal(f, v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

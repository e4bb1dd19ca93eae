package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxRequestBodyBytes bounds the size of a JSON request body.
const MaxRequestBodyBytes = 1 << 20

// Body errors reported by DecodeJSON.
var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrTrailingData = errors.New("request body must contain a single JSON value")
)

// DecodeJSON reads exactly one JSON value from the request body into v.
// Unknown fields are ignored. Bodies over MaxRequestBodyBytes fail with
// *http.MaxBytesError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

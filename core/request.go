package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrInvalidBody is returned by DecodeJSON for anything that is not a single
// well-formed JSON object of the expected shape.
var ErrInvalidBody = errors.New("invalid request body")

// maxBodySize caps request bodies at 1 MiB. Auth payloads are tiny; anything
// larger is not a legitimate client.
const maxBodySize = 1 << 20

// DecodeJSON decodes the request body into dst, enforcing the body size cap
// and rejecting trailing garbage after the first JSON value.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	if dec.More() {
		return ErrInvalidBody
	}
	return nil
}

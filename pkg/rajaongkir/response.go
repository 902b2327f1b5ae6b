package rajaongkir

import (
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// Response is a decoded RajaOngkir reply. The envelope is passed through as
// received; upstream failures reported inside it are not turned into errors.
type Response struct {
	// StatusCode is the HTTP status of the reply.
	StatusCode int
	// Raw is the response body exactly as received.
	Raw []byte
	// Data is the body decoded into maps, slices and scalars.
	Data any
}

// Status reads rajaongkir.status from the envelope. It returns zero values
// when the body has no status block.
func (r *Response) Status() Status {
	status := gjson.GetBytes(r.Raw, "rajaongkir.status")
	return Status{
		Code:        int(status.Get("code").Int()),
		Description: status.Get("description").String(),
	}
}

// OK reports whether the envelope status code is 200.
func (r *Response) OK() bool {
	return r.Status().Code == 200
}

// Get looks up a gjson path in the raw body, e.g. "rajaongkir.results.#.province".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Raw, path)
}

// Decode unmarshals the raw body into v, typically an *Envelope[T].
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

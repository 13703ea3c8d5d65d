package stdjson

import (
	"encoding/json"

	"github.com/tomruk/feign-go/codec/json/serializer"
)

// New returns the backend built on the standard library. It is the slowest
// of the backends and the reference the others are tested against.
func New() serializer.JSONSerializer {
	return serializer.Funcs{
		BackendName:   "encoding/json",
		MarshalFunc:   json.Marshal,
		UnmarshalFunc: json.Unmarshal,
		ValidFunc:     json.Valid,
	}
}

package gojson

import (
	"github.com/goccy/go-json"
	"github.com/tomruk/feign-go/codec/json/serializer"
)

// New returns the go-json backend. The options apply to every call.
func New(encodeOptions []json.EncodeOptionFunc, decodeOptions []json.DecodeOptionFunc) serializer.JSONSerializer {
	return serializer.Funcs{
		BackendName: "go-json",
		MarshalFunc: func(v any) ([]byte, error) {
			return json.MarshalWithOption(v, encodeOptions...)
		},
		UnmarshalFunc: func(data []byte, v any) error {
			return json.UnmarshalWithOption(data, v, decodeOptions...)
		},
		ValidFunc: json.Valid,
	}
}

package jsoniter

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tomruk/feign-go/codec/json/serializer"
)

type Config = jsoniter.Config

// Behaves exactly like encoding/json.
var ConfigCompatibleWithStandardLibrary = Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}

// New freezes config into an immutable jsoniter API.
func New(config Config) serializer.JSONSerializer {
	api := config.Froze()
	return serializer.Funcs{
		BackendName:   "jsoniter",
		MarshalFunc:   api.Marshal,
		UnmarshalFunc: api.Unmarshal,
		ValidFunc:     api.Valid,
	}
}

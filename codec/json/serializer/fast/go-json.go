//go:build !amd64 || (amd64 && !(linux || windows || darwin))

package fast

import (
	"github.com/tomruk/feign-go/codec/json/serializer"
	gojson "github.com/tomruk/feign-go/codec/json/serializer/go-json"
)

const selected = BackendGoJSON

func newSerializer(config Config) serializer.JSONSerializer {
	return gojson.New(config.GoJSONEncodeOptions, config.GoJSONDecodeOptions)
}

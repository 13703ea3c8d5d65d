//go:build amd64 && (linux || windows || darwin)

package fast

import (
	"github.com/tomruk/feign-go/codec/json/serializer"
	"github.com/tomruk/feign-go/codec/json/serializer/sonic"
)

const selected = BackendSonic

func newSerializer(config Config) serializer.JSONSerializer {
	return sonic.New(config.Sonic)
}

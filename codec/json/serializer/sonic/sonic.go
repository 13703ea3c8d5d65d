//go:build amd64 && (linux || windows || darwin)

package sonic

import (
	"github.com/bytedance/sonic"
	"github.com/tomruk/feign-go/codec/json/serializer"
)

type Config = sonic.Config

// New freezes config into an immutable sonic API.
func New(config Config) serializer.JSONSerializer {
	api := config.Froze()
	return serializer.Funcs{
		BackendName:   "sonic",
		MarshalFunc:   api.Marshal,
		UnmarshalFunc: api.Unmarshal,
		ValidFunc:     api.Valid,
	}
}

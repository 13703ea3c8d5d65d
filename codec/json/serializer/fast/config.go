package fast

import (
	"github.com/bytedance/sonic"
	"github.com/goccy/go-json"
)

// Backend names the serializer New picks. It matches the picked
// serializer's Name.
type Backend string

const (
	BackendSonic  Backend = "sonic"
	BackendGoJSON Backend = "go-json"
)

// Config carries the settings of both backends; only the selected one is
// read.
type Config struct {
	Sonic sonic.Config

	GoJSONEncodeOptions []json.EncodeOptionFunc
	GoJSONDecodeOptions []json.DecodeOptionFunc
}

func DefaultConfig() Config {
	return Config{
		Sonic: sonic.Config{
			// Decoded strings outlive the response buffer they came from.
			CopyString:       true,
			CompactMarshaler: true,
			EscapeHTML:       true,
			// Reject unescaped control characters the way encoding/json does.
			ValidateString: true,
		},
		GoJSONEncodeOptions: []json.EncodeOptionFunc{json.UnorderedMap()},
	}
}

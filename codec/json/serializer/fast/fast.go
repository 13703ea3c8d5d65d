// Package fast picks the quickest backend for the platform: sonic where its
// JIT runs, go-json everywhere else.
package fast

import "github.com/tomruk/feign-go/codec/json/serializer"

func New() serializer.JSONSerializer {
	return NewWithConfig(DefaultConfig())
}

func NewWithConfig(config Config) serializer.JSONSerializer {
	return newSerializer(config)
}

// Selected reports which backend New picks on this platform.
func Selected() Backend {
	return selected
}

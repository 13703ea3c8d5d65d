// Package jsoncodec is the JSON Encoder and Decoder of the feign client.
//
// Request bodies are pretty printed with an indent of two spaces:
//
//	{
//	  "name": "denominator.io.",
//	  "ttl": 3600
//	}
//
// Values of a given Go type can be written and read by hand by registering
// an Adapter with the Builder.
package jsoncodec

import (
	"bytes"
	"fmt"
	"io"

	feign "github.com/tomruk/feign-go"
	"github.com/tomruk/feign-go/typedesc"
)

var (
	_ feign.Encoder = (*Codec)(nil)
	_ feign.Decoder = (*Codec)(nil)
)

// Codec encodes request bodies and decodes response bodies through one
// Engine.
type Codec struct {
	engine *Engine
}

// New wraps an already built engine.
func New(engine *Engine) *Codec {
	return &Codec{engine: engine}
}

// NewCodec builds a Codec on a default Engine with adapters registered.
func NewCodec(adapters ...TypeAdapter) (*Codec, error) {
	engine, err := NewBuilder().Contribute(adapters...).Build()
	if err != nil {
		return nil, err
	}
	return New(engine), nil
}

func (c *Codec) Engine() *Engine {
	return c.engine
}

// Encode sets the serialized form of v as the body of t. The content type
// is left to the caller.
func (c *Codec) Encode(v any, t *feign.RequestTemplate) error {
	body, err := c.engine.SerializeBytes(v)
	if err != nil {
		return err
	}
	t.SetBody(body)
	return nil
}

// Decode deserializes the body of resp as target. An absent body and one
// made of whitespace only both decode to nil. The status code is ignored.
func (c *Codec) Decode(resp *feign.Response, target typedesc.Descriptor) (any, error) {
	if resp == nil || resp.Body == nil {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: reading response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return c.engine.Deserialize(data, target)
}

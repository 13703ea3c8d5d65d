package jsoncodec

import (
	"errors"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/tomruk/feign-go/codec/json/serializer"
	"github.com/tomruk/feign-go/codec/json/serializer/fast"
)

const defaultIndent = "  "

// Builder gathers adapters and produces an Engine exactly once.
//
//	engine, err := jsoncodec.NewBuilder().
//		RegisterAdapter(jsoncodec.Adapter[Zone]{Read: readZone}).
//		Build()
type Builder struct {
	serializer serializer.JSONSerializer
	indent     string
	adapters   []TypeAdapter

	engine *Engine
	errs   []error
}

// NewBuilder returns a Builder producing pretty printed output with an
// indent of two spaces, using the fast serializer.
func NewBuilder() *Builder {
	return &Builder{indent: defaultIndent}
}

// Serializer sets the JSON backend. A nil serializer selects fast.New().
func (b *Builder) Serializer(s serializer.JSONSerializer) *Builder {
	if b.built() {
		return b
	}
	b.serializer = s
	return b
}

// Indent sets the indentation unit. An empty indent produces compact output.
func (b *Builder) Indent(indent string) *Builder {
	if b.built() {
		return b
	}
	b.indent = indent
	return b
}

// RegisterAdapter adds a. Registering two adapters for one type fails Build.
func (b *Builder) RegisterAdapter(a TypeAdapter) *Builder {
	if b.built() {
		b.errs = append(b.errs, &ConfigurationError{Type: typeOf(a), Reason: "adapter registered after Build"})
		return b
	}
	b.adapters = append(b.adapters, a)
	return b
}

// Contribute registers every adapter in adapters, the way independent
// modules add to a shared set.
func (b *Builder) Contribute(adapters ...TypeAdapter) *Builder {
	for _, a := range adapters {
		b.RegisterAdapter(a)
	}
	return b
}

func (b *Builder) built() bool {
	return b.engine != nil
}

// Build validates the registered adapters and returns the Engine. Later
// calls return the same Engine, unless adapters were registered after the
// first call.
func (b *Builder) Build() (*Engine, error) {
	if b.built() {
		if len(b.errs) > 0 {
			return nil, errors.Join(b.errs...)
		}
		return b.engine, nil
	}

	adapters := make(map[reflect.Type]*adapterEntry, len(b.adapters))
	seen := mapset.NewThreadUnsafeSet[reflect.Type]()
	for _, a := range b.adapters {
		typ := typeOf(a)
		if typ == nil {
			return nil, &ConfigurationError{Reason: "adapter governs no type"}
		}
		if !seen.Add(typ) {
			return nil, &ConfigurationError{Type: typ, Reason: "more than one adapter registered"}
		}
		write, read := a.funcs()
		if write == nil && read == nil {
			return nil, &ConfigurationError{Type: typ, Reason: "adapter has neither Write nor Read"}
		}
		adapters[typ] = &adapterEntry{typ: typ, write: write, read: read}
	}

	s := b.serializer
	if s == nil {
		s = fast.New()
	}
	b.engine = &Engine{
		serializer: s,
		indent:     b.indent,
		adapters:   adapters,
	}
	return b.engine, nil
}

func typeOf(a TypeAdapter) reflect.Type {
	if a == nil {
		return nil
	}
	return a.Type()
}

// Config is the declarative form of a Builder.
type Config struct {
	// JSON backend. Default value is fast.New().
	Serializer serializer.JSONSerializer

	// Indentation unit. Default value is two spaces.
	// Set Compact to produce output without any whitespace.
	Indent  string
	Compact bool

	Adapters []TypeAdapter
}

// NewEngine builds an Engine from config. A nil config yields an Engine
// without adapters.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = new(Config)
	}
	b := NewBuilder().Serializer(config.Serializer)
	switch {
	case config.Compact:
		b.Indent("")
	case config.Indent != "":
		b.Indent(config.Indent)
	}
	return b.Contribute(config.Adapters...).Build()
}

// Package serializer defines the JSON backend the codec engine delegates
// scalar quoting, validation and third-party (un)marshalers to.
package serializer

// JSONSerializer is a JSON backend. Implementations must be safe for
// concurrent use.
type JSONSerializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// Valid reports whether data is exactly one well-formed JSON value.
	Valid(data []byte) bool

	// Name identifies the backend in diagnostics.
	Name() string
}

// Funcs turns a backend's package level functions into a JSONSerializer.
type Funcs struct {
	BackendName   string
	MarshalFunc   func(v any) ([]byte, error)
	UnmarshalFunc func(data []byte, v any) error
	ValidFunc     func(data []byte) bool
}

var _ JSONSerializer = Funcs{}

func (f Funcs) Marshal(v any) ([]byte, error) { return f.MarshalFunc(v) }

func (f Funcs) Unmarshal(data []byte, v any) error { return f.UnmarshalFunc(data, v) }

func (f Funcs) Valid(data []byte) bool { return f.ValidFunc(data) }

func (f Funcs) Name() string { return f.BackendName }

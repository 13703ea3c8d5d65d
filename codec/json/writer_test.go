package jsoncodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterIndentation(t *testing.T) {
	e := newEngine(t, NewBuilder())
	w := newWriter(e, "  ")

	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("name"))
	require.NoError(t, w.String("denominator.io."))
	require.NoError(t, w.Name("ttl"))
	require.NoError(t, w.Int(3600))
	require.NoError(t, w.Name("empty"))
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.EndArray())
	require.NoError(t, w.Name("records"))
	require.NoError(t, w.BeginArray())
	require.NoError(t, w.Uint(1))
	require.NoError(t, w.Float(0.5))
	require.NoError(t, w.Bool(false))
	require.NoError(t, w.Null())
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndObject())

	b, err := w.Bytes()
	require.NoError(t, err)
	expected := `{
  "name": "denominator.io.",
  "ttl": 3600,
  "empty": [],
  "records": [
    1,
    0.5,
    false,
    null
  ]
}`
	assert.Equal(t, expected, string(b))
}

func TestWriterErrors(t *testing.T) {
	e := compactEngine(t)

	tests := []struct {
		name  string
		write func(w *Writer) error
		err   error
	}{
		{
			name:  "name outside of an object",
			write: func(w *Writer) error { return w.Name("a") },
			err:   errNameOutsideObject,
		},
		{
			name: "value without a name",
			write: func(w *Writer) error {
				w.BeginObject()
				return w.Int(1)
			},
			err: errValueWithoutName,
		},
		{
			name: "two names in a row",
			write: func(w *Writer) error {
				w.BeginObject()
				w.Name("a")
				return w.Name("b")
			},
			err: errNameWithoutValue,
		},
		{
			name: "end after a name",
			write: func(w *Writer) error {
				w.BeginObject()
				w.Name("a")
				return w.EndObject()
			},
			err: errNameWithoutValue,
		},
		{
			name: "mismatched end",
			write: func(w *Writer) error {
				w.BeginArray()
				return w.EndObject()
			},
			err: errMismatchedEnd,
		},
		{
			name: "two top-level values",
			write: func(w *Writer) error {
				w.Int(1)
				return w.Int(2)
			},
			err: errMultipleValues,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := newWriter(e, "")
			err := test.write(w)
			assert.ErrorIs(t, err, test.err)

			// Errors are sticky.
			assert.ErrorIs(t, w.Null(), test.err)
			_, err = w.Bytes()
			assert.ErrorIs(t, err, test.err)
		})
	}

	t.Run("incomplete document", func(t *testing.T) {
		w := newWriter(e, "")
		_, err := w.Bytes()
		assert.ErrorIs(t, err, errIncompleteValue)

		require.NoError(t, w.BeginArray())
		_, err = w.Bytes()
		assert.ErrorIs(t, err, errIncompleteValue)
	})
}

func TestWriterRaw(t *testing.T) {
	e := compactEngine(t)

	t.Run("compacts nested raw values", func(t *testing.T) {
		w := newWriter(e, "")
		require.NoError(t, w.BeginArray())
		require.NoError(t, w.Raw([]byte(" { \"a\" : [ 1 , 2.5 ] } ")))
		require.NoError(t, w.EndArray())
		b, err := w.Bytes()
		require.NoError(t, err)
		assert.Equal(t, `[{"a":[1,2.5]}]`, string(b))
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		w := newWriter(e, "")
		assert.ErrorIs(t, w.Raw([]byte(`{"a":`)), errMalformed)
	})

	t.Run("rejects more than one value", func(t *testing.T) {
		w := newWriter(e, "")
		assert.Error(t, w.Raw([]byte(`1 2`)))
	})
}

func TestWriterEscapesStrings(t *testing.T) {
	e := compactEngine(t)
	w := newWriter(e, "")
	require.NoError(t, w.BeginObject())
	require.NoError(t, w.Name("quote\""))
	require.NoError(t, w.String("line\nbreak"))
	require.NoError(t, w.EndObject())

	b, err := w.Bytes()
	require.NoError(t, err)
	assert.Equal(t, `{"quote\"":"line\nbreak"}`, string(b))
}

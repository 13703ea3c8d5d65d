package jsoncodec

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/feign-go/codec/json/serializer/stdjson"
	"github.com/tomruk/feign-go/ordered"
	"github.com/tomruk/feign-go/typedesc"
)

func TestBuild(t *testing.T) {
	t.Run("should return the same engine", func(t *testing.T) {
		b := NewBuilder()
		e1, err := b.Build()
		require.NoError(t, err)
		e2, err := b.Build()
		require.NoError(t, err)
		assert.Same(t, e1, e2)
	})

	t.Run("should register adapters", func(t *testing.T) {
		e := newEngine(t, NewBuilder().RegisterAdapter(upperZoneAdapter))
		assert.True(t, e.HasAdapter(reflect.TypeOf(Zone{})))
		assert.False(t, e.HasAdapter(reflect.TypeOf(&Zone{})), "adapters govern the exact type only")
	})

	t.Run("default serializer", func(t *testing.T) {
		e := newEngine(t, NewBuilder().Serializer(nil))
		assert.NotNil(t, e.Serializer())
	})
}

func TestBuildConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		adapters []TypeAdapter
		reason   string
	}{
		{
			name:     "duplicate adapters",
			adapters: []TypeAdapter{upperZoneAdapter, Adapter[Zone]{Write: func(*Writer, Zone) error { return nil }}},
			reason:   "more than one adapter registered",
		},
		{
			name:     "nil adapter",
			adapters: []TypeAdapter{nil},
			reason:   "adapter governs no type",
		},
		{
			name:     "adapter without functions",
			adapters: []TypeAdapter{Adapter[Zone]{}},
			reason:   "adapter has neither Write nor Read",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewBuilder().Contribute(test.adapters...).Build()
			var configErr *ConfigurationError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, test.reason, configErr.Reason)
		})
	}

	t.Run("registration after Build", func(t *testing.T) {
		b := NewBuilder()
		e, err := b.Build()
		require.NoError(t, err)

		b.RegisterAdapter(upperZoneAdapter)
		_, err = b.Build()
		var configErr *ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, reflect.TypeOf(Zone{}), configErr.Type)
		assert.Equal(t, "adapter registered after Build", configErr.Reason)
		assert.False(t, e.HasAdapter(reflect.TypeOf(Zone{})), "the built engine should not change")
	})
}

func TestNewEngine(t *testing.T) {
	value := ordered.New("a", []int{1})

	t.Run("nil config", func(t *testing.T) {
		e, err := NewEngine(nil)
		require.NoError(t, err)
		s, err := e.Serialize(value)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", s)
	})

	t.Run("compact", func(t *testing.T) {
		e, err := NewEngine(&Config{Serializer: stdjson.New(), Compact: true})
		require.NoError(t, err)
		s, err := e.Serialize(value)
		require.NoError(t, err)
		assert.Equal(t, `{"a":[1]}`, s)
	})

	t.Run("custom indent", func(t *testing.T) {
		e, err := NewEngine(&Config{Indent: "\t"})
		require.NoError(t, err)
		s, err := e.Serialize(value)
		require.NoError(t, err)
		assert.Equal(t, "{\n\t\"a\": [\n\t\t1\n\t]\n}", s)
	})

	t.Run("adapters", func(t *testing.T) {
		e, err := NewEngine(&Config{Adapters: []TypeAdapter{upperZoneAdapter}})
		require.NoError(t, err)
		v, err := e.Deserialize([]byte(`{"name":"x"}`), typedesc.Of[Zone]())
		require.NoError(t, err)
		assert.Equal(t, Zone{Name: "X"}, v)
	})
}

package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsent())
	assert.Equal(t, KindAbsent, v.Kind())
	assert.False(t, v.IsNull())
	assert.False(t, Null().IsAbsent())
	assert.Nil(t, v.Any())
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"absent", Absent(), ""},
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"integer", Number(42), "42"},
		{"float", Number(1.5), "1.5"},
		{"negative", Number(-3), "-3"},
		{"string", String("abc"), "abc"},
		{"array", Array(Number(1), String("b")), "1,b"},
		{"object", Object(map[string]Value{"a": Number(1)}), `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestEqual(t *testing.T) {
	a := Object(map[string]Value{"x": Array(Number(1), Null())})
	b := Object(map[string]Value{"x": Array(Number(1), Null())})
	c := Object(map[string]Value{"x": Array(Number(1), Absent())})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, Number(1).Equal(String("1")))
	assert.True(t, Absent().Equal(Value{}))
	assert.False(t, Array().Equal(Array(Null())))
}

func TestIsInteger(t *testing.T) {
	assert.True(t, Number(3).IsInteger())
	assert.True(t, Number(-0).IsInteger())
	assert.False(t, Number(3.25).IsInteger())
	assert.False(t, String("3").IsInteger())
}

func TestAccessors(t *testing.T) {
	s, ok := String("x").AsString()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = Number(1).AsString()
	assert.False(t, ok)

	n, ok := Number(2.5).AsNumber()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, n, 0)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.Nil(t, String("x").Items())
	assert.Nil(t, String("x").Fields())
	assert.Equal(t, 2, Strings("a", "b").Len())
	assert.Equal(t, []string{"a", "b"}, Object(map[string]Value{"b": Null(), "a": Null()}).Keys())
}

func TestFromAny(t *testing.T) {
	t.Run("json shapes", func(t *testing.T) {
		var raw any
		require.NoError(t, json.Unmarshal([]byte(`{"a":[1,"x",true,null],"b":{"c":2.5}}`), &raw))
		got := FromAny(raw)
		want := Object(map[string]Value{
			"a": Array(Number(1), String("x"), Bool(true), Null()),
			"b": Object(map[string]Value{"c": Number(2.5)}),
		})
		assert.True(t, want.Equal(got), "got %s", got)
	})

	t.Run("yaml shapes", func(t *testing.T) {
		got := FromAny(map[any]any{200: []string{"a"}, "k": int64(7)})
		assert.Equal(t, KindObject, got.Kind())
		assert.True(t, Strings("a").Equal(got.Fields()["200"]))
		assert.True(t, Number(7).Equal(got.Fields()["k"]))
	})

	t.Run("json.Number", func(t *testing.T) {
		assert.True(t, Number(12).Equal(FromAny(json.Number("12"))))
	})

	t.Run("nil pointer is null", func(t *testing.T) {
		var p *int
		assert.True(t, FromAny(p).IsNull())
	})

	t.Run("round trip through Any", func(t *testing.T) {
		v := Array(Object(map[string]Value{"n": Number(1)}), String("s"))
		assert.True(t, v.Equal(FromAny(v.Any())))
	})
}

func TestDecode(t *testing.T) {
	t.Run("empty input is absent", func(t *testing.T) {
		v, err := Decode([]byte("  \n"))
		require.NoError(t, err)
		assert.True(t, v.IsAbsent())
	})

	t.Run("null", func(t *testing.T) {
		v, err := Decode([]byte("null"))
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	})

	t.Run("object", func(t *testing.T) {
		v, err := Decode([]byte(`{"id": 10, "tags": ["a"]}`))
		require.NoError(t, err)
		assert.True(t, Number(10).Equal(v.Fields()["id"]))
		assert.True(t, Strings("a").Equal(v.Fields()["tags"]))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Decode([]byte(`{"id":`))
		assert.Error(t, err)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := Decode([]byte(`1 2`))
		assert.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	data, err := Encode(Object(map[string]Value{"a": Strings("x")}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":["x"]}`, string(data))

	data, err = Encode(Absent())
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

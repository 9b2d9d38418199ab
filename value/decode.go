package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	gojson "github.com/goccy/go-json"
)

// FromAny converts decoded JSON or YAML data into a Value.
//
// Integer and float Go types become Number, json.Number is parsed,
// map[any]any keys are rendered with fmt. Unsupported types become
// their fmt representation as a String.
func FromAny(data any) Value {
	switch d := data.(type) {
	case nil:
		return Null()
	case Value:
		return d
	case bool:
		return Bool(d)
	case string:
		return String(d)
	case float64:
		return Number(d)
	case float32:
		return Number(float64(d))
	case int:
		return Number(float64(d))
	case int8:
		return Number(float64(d))
	case int16:
		return Number(float64(d))
	case int32:
		return Number(float64(d))
	case int64:
		return Number(float64(d))
	case uint:
		return Number(float64(d))
	case uint8:
		return Number(float64(d))
	case uint16:
		return Number(float64(d))
	case uint32:
		return Number(float64(d))
	case uint64:
		return Number(float64(d))
	case json.Number:
		if f, err := d.Float64(); err == nil {
			return Number(f)
		}
		return String(d.String())
	case []any:
		items := make([]Value, len(d))
		for i, item := range d {
			items[i] = FromAny(item)
		}
		return Array(items...)
	case []string:
		return Strings(d...)
	case map[string]any:
		fields := make(map[string]Value, len(d))
		for k, f := range d {
			fields[k] = FromAny(f)
		}
		return Object(fields)
	case map[any]any:
		fields := make(map[string]Value, len(d))
		for k, f := range d {
			fields[fmt.Sprint(k)] = FromAny(f)
		}
		return Object(fields)
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromAny(rv.Index(i).Interface())
		}
		return Array(items...)
	case reflect.Map:
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[fmt.Sprint(iter.Key().Interface())] = FromAny(iter.Value().Interface())
		}
		return Object(fields)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return FromAny(rv.Elem().Interface())
	}
	return String(fmt.Sprint(data))
}

// Decode parses a JSON document into a Value.
// Empty or whitespace-only input decodes to Absent.
func Decode(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Absent(), nil
	}
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Absent(), fmt.Errorf("value: invalid JSON: %w", err)
	}
	if dec.More() {
		return Absent(), fmt.Errorf("value: invalid JSON: trailing data after document")
	}
	return FromAny(raw), nil
}

// Encode renders v as JSON. Absent encodes as null.
func Encode(v Value) ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.n) || math.IsInf(v.n, 0)) {
		return nil, fmt.Errorf("value: cannot encode %v as JSON", v.n)
	}
	return gojson.Marshal(v.Any())
}

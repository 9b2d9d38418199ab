package compiler

import (
	"math"
	"strconv"
	"strings"

	"github.com/erraggy/oasmatch/document"
	"github.com/erraggy/oasmatch/schema"
	"github.com/erraggy/oasmatch/value"
)

// CollectionFormat governs how an array delivered as one string is split.
type CollectionFormat int

// Supported collection formats. The zero value is CSV, the OAS 2.0 default.
const (
	CSV CollectionFormat = iota
	SSV
	TSV
	Pipes
	Multi
)

// String returns the OAS name of the format.
func (f CollectionFormat) String() string {
	switch f {
	case CSV:
		return "csv"
	case SSV:
		return "ssv"
	case TSV:
		return "tsv"
	case Pipes:
		return "pipes"
	case Multi:
		return "multi"
	}
	return "unknown"
}

// ParseCollectionFormat maps a declared collectionFormat to a CollectionFormat.
// An empty name is CSV. Unrecognized names map to Multi and report false.
func ParseCollectionFormat(name string) (CollectionFormat, bool) {
	switch name {
	case "", "csv":
		return CSV, true
	case "ssv":
		return SSV, true
	case "tsv":
		return TSV, true
	case "pipes":
		return Pipes, true
	case "multi":
		return Multi, true
	}
	return Multi, false
}

// SplitCollection splits raw into its elements. Multi does not split: the
// transport already delivered one value per occurrence.
func SplitCollection(raw string, f CollectionFormat) []string {
	switch f {
	case CSV:
		return strings.Split(raw, ",")
	case SSV:
		return strings.Split(raw, " ")
	case TSV:
		return strings.Split(raw, "\t")
	case Pipes:
		return strings.Split(raw, "|")
	}
	return []string{raw}
}

// CoerceItems converts split elements according to the array's item type.
// number and integer items that parse become numbers, "true" and "false"
// become booleans for boolean items. Everything else stays a string.
func CoerceItems(items []string, itemType string) value.Value {
	out := make([]value.Value, len(items))
	for i, item := range items {
		out[i] = CoerceScalar(value.String(item), itemType)
	}
	return value.Array(out...)
}

// CoerceScalar converts a string value to typ when it can. Values that are not
// strings, or strings that do not parse, are returned unchanged so that the
// schema validator rejects them.
func CoerceScalar(v value.Value, typ string) value.Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}
	switch typ {
	case "number", "integer":
		if n, ok := parseNumber(s); ok {
			return value.Number(n)
		}
	case "boolean":
		switch s {
		case "true":
			return value.Bool(true)
		case "false":
			return value.Bool(false)
		}
	}
	return v
}

// parseNumber accepts what strconv.ParseFloat accepts after trimming, except
// NaN and infinities. The empty string is not a number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Coerce normalizes a transport value (query string or header) into the type
// frag declares. Arrays that arrive as a single value are split with f.
func Coerce(frag *document.Schema, f CollectionFormat, v value.Value) value.Value {
	if frag == nil || v.IsAbsent() {
		return v
	}
	switch frag.Type {
	case "number", "integer", "boolean":
		return CoerceScalar(v, frag.Type)
	case "array":
		itemType := ""
		if frag.Items != nil {
			itemType = frag.Items.Type
		}
		if v.Kind() == value.KindArray {
			items := v.Items()
			out := make([]value.Value, len(items))
			for i, item := range items {
				out[i] = CoerceScalar(item, itemType)
			}
			return value.Array(out...)
		}
		return CoerceItems(SplitCollection(v.String(), f), itemType)
	}
	return v
}

// Validator reports whether a value satisfies a parameter or response.
type Validator func(value.Value) bool

// presence wraps pred so that an absent value passes exactly when the field
// is optional, without consulting pred.
func presence(required bool, pred schema.Predicate) Validator {
	return func(v value.Value) bool {
		if v.IsAbsent() {
			return !required
		}
		return pred(v)
	}
}

// CoercionValidator returns a validator for string-delivered values. Absent
// values pass iff the field is not required; anything else is coerced to
// frag's type and handed to pred.
func CoercionValidator(frag *document.Schema, f CollectionFormat, required bool, pred schema.Predicate) Validator {
	return func(v value.Value) bool {
		if v.IsAbsent() {
			return !required
		}
		return pred(Coerce(frag, f, v))
	}
}

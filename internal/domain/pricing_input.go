package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParamKind identifies the JSON type of a request parameter.
type ParamKind int

const (
	ParamNull ParamKind = iota
	ParamNumber
	ParamBool
	ParamString
	// ParamOther covers nested objects and arrays.
	ParamOther
)

// ParamValue is a single top-level request parameter used for pricing.
type ParamValue struct {
	kind ParamKind
	num  string
	b    bool
	str  string
}

// PricingInput holds the top-level parameters of a request body.
type PricingInput map[string]ParamValue

// NumberParam returns a numeric parameter from its decimal text.
func NumberParam(text string) ParamValue {
	return ParamValue{kind: ParamNumber, num: text, b: false, str: ""}
}

// BoolParam returns a boolean parameter.
func BoolParam(v bool) ParamValue {
	return ParamValue{kind: ParamBool, num: "", b: v, str: ""}
}

// StringParam returns a string parameter.
func StringParam(v string) ParamValue {
	return ParamValue{kind: ParamString, num: "", b: false, str: v}
}

// NullParam returns a JSON null parameter.
func NullParam() ParamValue {
	return ParamValue{kind: ParamNull, num: "", b: false, str: ""}
}

// OtherParam returns a parameter holding a nested object or array.
func OtherParam() ParamValue {
	return ParamValue{kind: ParamOther, num: "", b: false, str: ""}
}

// Kind returns the JSON type of the parameter.
func (v ParamValue) Kind() ParamKind {
	return v.kind
}

// Numeric converts the parameter to a number using loose coercion: booleans
// become 0 or 1, null and blank strings become 0, numeric strings are parsed.
// It reports false when the value has no numeric meaning.
func (v ParamValue) Numeric() (decimal.Decimal, bool) {
	switch v.kind {
	case ParamNumber:
		d, err := decimal.NewFromString(v.num)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case ParamBool:
		if v.b {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case ParamNull:
		return decimal.Zero, true
	case ParamString:
		trimmed := strings.TrimSpace(v.str)
		if trimmed == "" {
			return decimal.Zero, true
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// Truthy reports whether the parameter counts as set for additive pricing.
// Zero, false, null and the empty string are falsy; objects and arrays are truthy.
func (v ParamValue) Truthy() bool {
	switch v.kind {
	case ParamNumber:
		d, err := decimal.NewFromString(v.num)
		return err == nil && !d.IsZero()
	case ParamBool:
		return v.b
	case ParamString:
		return v.str != ""
	case ParamOther:
		return true
	default:
		return false
	}
}

// ParsePricingInput extracts top-level parameters from a JSON object body.
// Anything that is not a JSON object yields an empty input.
func ParsePricingInput(body []byte) PricingInput {
	input := PricingInput{}
	if len(bytes.TrimSpace(body)) == 0 {
		return input
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return input
	}

	for key, value := range raw {
		input[key] = paramFromJSON(value)
	}
	return input
}

func paramFromJSON(value any) ParamValue {
	switch typed := value.(type) {
	case nil:
		return NullParam()
	case json.Number:
		return NumberParam(typed.String())
	case bool:
		return BoolParam(typed)
	case string:
		return StringParam(typed)
	default:
		return OtherParam()
	}
}

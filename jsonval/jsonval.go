// Package jsonval models JSON documents as a closed tagged union over
// null/bool/int/float/string/array/object, with ordered object members.
// It replaces open-ended interface{} trees at the boundaries where the
// wallet core consumes raw JSON: ABI schemas and JSON-RPC parameters.
package jsonval

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind discriminates the union.
type Kind uint8

// The closed set of JSON value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of an object. Order is preserved.
type Member struct {
	Key   string
	Value Value
}

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []Value
	obj  []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered list of values.
func Array(values ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), values...)}
}

// Object wraps an ordered list of members.
func Object(members ...Member) Value {
	return Value{kind: KindObject, obj: append([]Member(nil), members...)}
}

// Kind returns the value's discriminator.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) kindError(want Kind) error {
	return errors.Errorf("jsonval: value is %s, want %s", v.kind, want)
}

// Bool returns the wrapped bool.
func (v Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.kindError(KindBool)
	}
	return v.b, nil
}

// Int64 returns the wrapped integer.
func (v Value) Int64() (int64, error) {
	if v.kind != KindInt {
		return 0, v.kindError(KindInt)
	}
	return v.i, nil
}

// Float64 returns the wrapped float, widening an int if needed.
func (v Value) Float64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	default:
		return 0, v.kindError(KindFloat)
	}
}

// Str returns the wrapped string.
func (v Value) Str() (string, error) {
	if v.kind != KindString {
		return "", v.kindError(KindString)
	}
	return v.s, nil
}

// Array returns the wrapped elements.
func (v Value) Array() ([]Value, error) {
	if v.kind != KindArray {
		return nil, v.kindError(KindArray)
	}
	return v.arr, nil
}

// Members returns the wrapped object members in document order.
func (v Value) Members() ([]Member, error) {
	if v.kind != KindObject {
		return nil, v.kindError(KindObject)
	}
	return v.obj, nil
}

// Get looks up an object member by key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Parse decodes a JSON document into a Value. Trailing content after the
// first value is rejected.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, errors.New("jsonval: trailing content after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, errors.Wrap(err, "jsonval: malformed JSON")
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return parseNumber(t)
	case json.Delim:
		switch t {
		case '[':
			return parseArray(dec)
		case '{':
			return parseObject(dec)
		}
	}
	return Value{}, errors.Errorf("jsonval: unexpected token %v", tok)
}

func parseNumber(n json.Number) (Value, error) {
	raw := n.String()
	if !strings.ContainsAny(raw, ".eE") {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return Int(i), nil
		}
		// Out-of-range integers fall through to the float representation.
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, errors.Wrapf(err, "jsonval: malformed number %q", raw)
	}
	return Float(f), nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, errors.Wrap(err, "jsonval: malformed array")
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return Value{kind: KindArray, arr: elems}, nil
		}
		elem, err := parseToken(dec, tok)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	var members []Member
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, errors.Wrap(err, "jsonval: malformed object")
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return Value{kind: KindObject, obj: members}, nil
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, errors.Errorf("jsonval: object key is %v, want string", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		members = append(members, Member{Key: key, Value: val})
	}
}

// MarshalJSON renders the value back to JSON, preserving member order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) write(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		data, err := json.Marshal(v.f)
		if err != nil {
			return errors.Wrap(err, "jsonval: cannot encode float")
		}
		buf.Write(data)
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return errors.Wrap(err, "jsonval: cannot encode string")
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := elem.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return errors.Wrap(err, "jsonval: cannot encode object key")
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.write(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

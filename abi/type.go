// Package abi parses Ethereum contract ABI schemas and encodes and decodes
// call data, return values and event logs per the contract ABI encoding
// rules (32-byte words, head/tail layout for dynamic types).
package abi

import (
	"strconv"
	"strings"
)

// Kind discriminates the closed set of supported ABI types.
type Kind uint8

// Supported type kinds.
const (
	KindBool Kind = iota
	KindUint
	KindInt
	KindAddress
	KindString
	KindBytes
	KindFixedBytes
	KindArray      // dynamic-length array
	KindFixedArray // fixed-length array
	KindTuple
)

// wordSize is the ABI's universal 32-byte slot width.
const wordSize = 32

// Type describes one ABI type. Array element types and tuple fields nest
// recursively.
type Type struct {
	Kind   Kind
	Bits   int     // uintN/intN bit width
	Size   int     // byte length for fixed bytes, element count for fixed arrays
	Elem   *Type   // array element type
	Fields []Param // tuple components
}

// Param is a named, typed parameter of an ABI item. Indexed is meaningful
// for event parameters only.
type Param struct {
	Name    string
	Type    Type
	Indexed bool
}

// ParseType parses an ABI type string. Tuples need their component list from
// the schema; for every other type components must be nil.
func ParseType(s string, components []Param) (Type, error) {
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open < 0 {
			return Type{}, &UnknownTypeError{TypeString: s}
		}

		elem, err := ParseType(s[:open], components)
		if err != nil {
			return Type{}, err
		}

		arity := s[open+1 : len(s)-1]
		if arity == "" {
			return Type{Kind: KindArray, Elem: &elem}, nil
		}
		n, err := strconv.Atoi(arity)
		if err != nil || n < 1 {
			return Type{}, &UnknownTypeError{TypeString: s}
		}
		return Type{Kind: KindFixedArray, Size: n, Elem: &elem}, nil
	}

	switch s {
	case "bool":
		return Type{Kind: KindBool}, nil
	case "address":
		return Type{Kind: KindAddress}, nil
	case "string":
		return Type{Kind: KindString}, nil
	case "bytes":
		return Type{Kind: KindBytes}, nil
	case "uint":
		return Type{Kind: KindUint, Bits: 256}, nil
	case "int":
		return Type{Kind: KindInt, Bits: 256}, nil
	case "tuple":
		if components == nil {
			return Type{}, schemaErrorf("tuple type %q has no components", s)
		}
		return Type{Kind: KindTuple, Fields: components}, nil
	}

	if rest, ok := strings.CutPrefix(s, "uint"); ok {
		bits, err := parseBits(rest)
		if err != nil {
			return Type{}, &UnknownTypeError{TypeString: s}
		}
		return Type{Kind: KindUint, Bits: bits}, nil
	}
	if rest, ok := strings.CutPrefix(s, "int"); ok {
		bits, err := parseBits(rest)
		if err != nil {
			return Type{}, &UnknownTypeError{TypeString: s}
		}
		return Type{Kind: KindInt, Bits: bits}, nil
	}
	if rest, ok := strings.CutPrefix(s, "bytes"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > wordSize {
			return Type{}, &UnknownTypeError{TypeString: s}
		}
		return Type{Kind: KindFixedBytes, Size: n}, nil
	}

	return Type{}, &UnknownTypeError{TypeString: s}
}

func parseBits(s string) (int, error) {
	bits, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, strconv.ErrRange
	}
	return bits, nil
}

// String renders the canonical type string used for signatures: parameter
// names stripped, aliases expanded, tuples parenthesized.
func (t Type) String() string {
	switch t.Kind {
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Size)
	case KindUint:
		return "uint" + strconv.Itoa(t.Bits)
	case KindInt:
		return "int" + strconv.Itoa(t.Bits)
	case KindArray:
		return t.Elem.String() + "[]"
	case KindFixedArray:
		return t.Elem.String() + "[" + strconv.Itoa(t.Size) + "]"
	case KindTuple:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Type.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "invalid"
}

// IsDynamic reports whether the type uses the tail region: bytes, string,
// dynamic arrays, and fixed arrays or tuples with any dynamic member.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case KindBytes, KindString, KindArray:
		return true
	case KindFixedArray:
		return t.Elem.IsDynamic()
	case KindTuple:
		for _, f := range t.Fields {
			if f.Type.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// headSize is the number of bytes the type occupies in the head region: one
// offset word when dynamic, the full in-place width otherwise.
func (t Type) headSize() int {
	if t.IsDynamic() {
		return wordSize
	}
	switch t.Kind {
	case KindFixedArray:
		return t.Size * t.Elem.headSize()
	case KindTuple:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.headSize()
		}
		return total
	}
	return wordSize
}

package abi

import (
	"bytes"
	"math/big"
	"reflect"

	"github.com/chainforge/walletcore/ethtypes"
)

// EncodeArgs encodes the arguments against the parameter list using the
// head/tail layout: static values in place, dynamic values as offsets into
// a trailing tail region.
func EncodeArgs(params []Param, args []interface{}) ([]byte, error) {
	if len(args) != len(params) {
		return nil, schemaErrorf("got %d arguments, want %d", len(args), len(params))
	}
	types := make([]Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return encodeComposite(types, args)
}

// EncodeCall prefixes the function selector to the encoded arguments,
// producing complete call data.
func EncodeCall(item *Item, args []interface{}) ([]byte, error) {
	encoded, err := EncodeArgs(item.Inputs, args)
	if err != nil {
		return nil, err
	}
	selector := item.Selector()
	return append(selector[:], encoded...), nil
}

// encodeComposite lays out a sequence of typed values. The head is sized
// first from the static widths, then tail content is appended in argument
// order with its head offsets backfilled relative to the block start.
func encodeComposite(types []Type, vals []interface{}) ([]byte, error) {
	headSize := 0
	for _, t := range types {
		headSize += t.headSize()
	}

	var head, tail bytes.Buffer
	for i, t := range types {
		enc, err := encodeValue(t, vals[i])
		if err != nil {
			return nil, err
		}
		if t.IsDynamic() {
			head.Write(encodeWord(big.NewInt(int64(headSize + tail.Len()))))
			tail.Write(enc)
		} else {
			head.Write(enc)
		}
	}

	head.Write(tail.Bytes())
	return head.Bytes(), nil
}

// encodeValue produces the full encoding of one value, without any outer
// offset word.
func encodeValue(t Type, v interface{}) ([]byte, error) {
	switch t.Kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, encodeErrorf(t, "value %T is not a bool", v)
		}
		word := make([]byte, wordSize)
		if b {
			word[wordSize-1] = 1
		}
		return word, nil

	case KindUint, KindInt:
		return encodeInteger(t, v)

	case KindAddress:
		addr, err := toAddress(t, v)
		if err != nil {
			return nil, err
		}
		word := make([]byte, wordSize)
		copy(word[wordSize-ethtypes.AddressLength:], addr[:])
		return word, nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, encodeErrorf(t, "value %T is not a string", v)
		}
		return encodePadded([]byte(s)), nil

	case KindBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, encodeErrorf(t, "value %T is not a byte slice", v)
		}
		return encodePadded(b), nil

	case KindFixedBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, encodeErrorf(t, "value %T is not a byte slice", v)
		}
		if len(b) != t.Size {
			return nil, encodeErrorf(t, "got %d bytes, want %d", len(b), t.Size)
		}
		word := make([]byte, wordSize)
		copy(word, b)
		return word, nil

	case KindArray:
		elems, err := toSlice(t, v)
		if err != nil {
			return nil, err
		}
		body, err := encodeComposite(repeatType(*t.Elem, len(elems)), elems)
		if err != nil {
			return nil, err
		}
		return append(encodeWord(big.NewInt(int64(len(elems)))), body...), nil

	case KindFixedArray:
		elems, err := toSlice(t, v)
		if err != nil {
			return nil, err
		}
		if len(elems) != t.Size {
			return nil, encodeErrorf(t, "got %d elements, want %d", len(elems), t.Size)
		}
		return encodeComposite(repeatType(*t.Elem, t.Size), elems)

	case KindTuple:
		elems, err := toSlice(t, v)
		if err != nil {
			return nil, err
		}
		if len(elems) != len(t.Fields) {
			return nil, encodeErrorf(t, "got %d fields, want %d", len(elems), len(t.Fields))
		}
		types := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			types[i] = f.Type
		}
		return encodeComposite(types, elems)
	}

	return nil, encodeErrorf(t, "unsupported kind")
}

// encodePadded is the [length, right-padded content] form shared by bytes
// and string.
func encodePadded(b []byte) []byte {
	padded := (len(b) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, wordSize+padded)
	copy(out, encodeWord(big.NewInt(int64(len(b)))))
	copy(out[wordSize:], b)
	return out
}

var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

func encodeWord(x *big.Int) []byte {
	word := make([]byte, wordSize)
	x.FillBytes(word)
	return word
}

func encodeInteger(t Type, v interface{}) ([]byte, error) {
	x, err := toBigInt(t, v)
	if err != nil {
		return nil, err
	}

	if t.Kind == KindUint {
		if x.Sign() < 0 {
			return nil, encodeErrorf(t, "value %s is negative", x)
		}
		if x.BitLen() > t.Bits {
			return nil, encodeErrorf(t, "value %s exceeds %d bits", x, t.Bits)
		}
		return encodeWord(x), nil
	}

	bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
	if x.Cmp(new(big.Int).Neg(bound)) < 0 || x.Cmp(bound) >= 0 {
		return nil, encodeErrorf(t, "value %s does not fit %d-bit signed range", x, t.Bits)
	}
	if x.Sign() < 0 {
		// two's complement over 256 bits
		return encodeWord(new(big.Int).Add(twoPow256, x)), nil
	}
	return encodeWord(x), nil
}

func toBigInt(t Type, v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, encodeErrorf(t, "value is a nil *big.Int")
		}
		return new(big.Int).Set(n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	}
	return nil, encodeErrorf(t, "value %T is not an integer", v)
}

func toAddress(t Type, v interface{}) (ethtypes.Address, error) {
	switch a := v.(type) {
	case ethtypes.Address:
		return a, nil
	case string:
		addr, err := ethtypes.ParseAddress(a)
		if err != nil {
			return ethtypes.Address{}, encodeErrorf(t, "%s", err)
		}
		return addr, nil
	}
	return ethtypes.Address{}, encodeErrorf(t, "value %T is not an address", v)
}

// toSlice accepts []interface{} directly and converts any other slice or
// array type reflectively, so callers can pass e.g. []*big.Int.
func toSlice(t Type, v interface{}) ([]interface{}, error) {
	if vs, ok := v.([]interface{}); ok {
		return vs, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, encodeErrorf(t, "value %T is not a slice", v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func repeatType(elem Type, n int) []Type {
	types := make([]Type, n)
	for i := range types {
		types[i] = elem
	}
	return types
}

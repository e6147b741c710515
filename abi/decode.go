package abi

import (
	"math/big"

	"github.com/chainforge/walletcore/ethtypes"
)

// DecodeArgs decodes an encoded block against the parameter list, mirroring
// the head/tail encoding. Values come back as bool, *big.Int,
// ethtypes.Address, string, []byte and []interface{} for arrays and tuples.
func DecodeArgs(params []Param, data []byte) ([]interface{}, error) {
	types := make([]Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return decodeComposite(types, data, 0)
}

// DecodeReturn decodes a function call's return data.
func DecodeReturn(item *Item, data []byte) ([]interface{}, error) {
	return DecodeArgs(item.Outputs, data)
}

// DecodeCallData strips and checks the 4-byte selector, then decodes the
// function's input arguments.
func DecodeCallData(item *Item, data []byte) ([]interface{}, error) {
	if len(data) < 4 {
		return nil, &DecodeError{Type: item.Signature(), Offset: 0, Reason: "call data shorter than a selector"}
	}
	selector := item.Selector()
	if data[0] != selector[0] || data[1] != selector[1] || data[2] != selector[2] || data[3] != selector[3] {
		return nil, &DecodeError{Type: item.Signature(), Offset: 0, Reason: "selector mismatch"}
	}
	return DecodeArgs(item.Inputs, data[4:])
}

// decodeComposite reads a sequence of typed values from a block. base is the
// block's absolute offset in the outermost payload, used for error reports.
func decodeComposite(types []Type, block []byte, base int) ([]interface{}, error) {
	vals := make([]interface{}, len(types))
	pos := 0
	for i, t := range types {
		if t.IsDynamic() {
			offset, err := decodeOffset(t, block, pos, base)
			if err != nil {
				return nil, err
			}
			vals[i], err = decodeValue(t, block, offset, base)
			if err != nil {
				return nil, err
			}
			pos += wordSize
		} else {
			val, err := decodeValue(t, block, pos, base)
			if err != nil {
				return nil, err
			}
			vals[i] = val
			pos += t.headSize()
		}
	}
	return vals, nil
}

// decodeValue decodes one value starting at off within block. For dynamic
// types off is the already-dereferenced tail position.
func decodeValue(t Type, block []byte, off int, base int) (interface{}, error) {
	switch t.Kind {
	case KindBool:
		word, err := readWord(t, block, off, base)
		if err != nil {
			return nil, err
		}
		for _, b := range word[:wordSize-1] {
			if b != 0 {
				return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "boolean word has excess bits"}
			}
		}
		switch word[wordSize-1] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "boolean word is neither 0 nor 1"}

	case KindUint:
		word, err := readWord(t, block, off, base)
		if err != nil {
			return nil, err
		}
		x := new(big.Int).SetBytes(word)
		if x.BitLen() > t.Bits {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "value exceeds the declared bit width"}
		}
		return x, nil

	case KindInt:
		word, err := readWord(t, block, off, base)
		if err != nil {
			return nil, err
		}
		// 256-bit two's complement, then narrow with a sign-extension check.
		x := new(big.Int).SetBytes(word)
		if x.Bit(255) == 1 {
			x.Sub(x, twoPow256)
		}
		bound := new(big.Int).Lsh(big.NewInt(1), uint(t.Bits-1))
		if x.Cmp(new(big.Int).Neg(bound)) < 0 || x.Cmp(bound) >= 0 {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "value does not fit the declared bit width"}
		}
		return x, nil

	case KindAddress:
		word, err := readWord(t, block, off, base)
		if err != nil {
			return nil, err
		}
		addr, err := ethtypes.AddressFromBytes(word[wordSize-ethtypes.AddressLength:])
		if err != nil {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: err.Error()}
		}
		return addr, nil

	case KindFixedBytes:
		word, err := readWord(t, block, off, base)
		if err != nil {
			return nil, err
		}
		for _, b := range word[t.Size:] {
			if b != 0 {
				return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "nonzero padding after the value"}
			}
		}
		out := make([]byte, t.Size)
		copy(out, word)
		return out, nil

	case KindString:
		b, err := decodeDynamicBytes(t, block, off, base)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case KindBytes:
		return decodeDynamicBytes(t, block, off, base)

	case KindArray:
		length, err := decodeLength(t, block, off, base)
		if err != nil {
			return nil, err
		}
		if off+wordSize > len(block) {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "data is truncated"}
		}
		sub := block[off+wordSize:]
		return decodeComposite(repeatType(*t.Elem, length), sub, base+off+wordSize)

	case KindFixedArray:
		if off > len(block) {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "data is truncated"}
		}
		return decodeComposite(repeatType(*t.Elem, t.Size), block[off:], base+off)

	case KindTuple:
		if off > len(block) {
			return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "data is truncated"}
		}
		types := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			types[i] = f.Type
		}
		return decodeComposite(types, block[off:], base+off)
	}

	return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "unsupported kind"}
}

func readWord(t Type, block []byte, off int, base int) ([]byte, error) {
	if off < 0 || off+wordSize > len(block) {
		return nil, &DecodeError{Type: t.String(), Offset: base + off, Reason: "data is truncated"}
	}
	return block[off : off+wordSize], nil
}

func decodeOffset(t Type, block []byte, pos int, base int) (int, error) {
	word, err := readWord(t, block, pos, base)
	if err != nil {
		return 0, err
	}
	x := new(big.Int).SetBytes(word)
	if !x.IsInt64() || x.Int64() > int64(len(block)) {
		return 0, &DecodeError{Type: t.String(), Offset: base + pos, Reason: "tail offset points outside the data"}
	}
	return int(x.Int64()), nil
}

func decodeLength(t Type, block []byte, off int, base int) (int, error) {
	word, err := readWord(t, block, off, base)
	if err != nil {
		return 0, err
	}
	x := new(big.Int).SetBytes(word)
	if !x.IsInt64() || x.Int64() > int64(len(block)) {
		return 0, &DecodeError{Type: t.String(), Offset: base + off, Reason: "length exceeds the data"}
	}
	return int(x.Int64()), nil
}

func decodeDynamicBytes(t Type, block []byte, off int, base int) ([]byte, error) {
	length, err := decodeLength(t, block, off, base)
	if err != nil {
		return nil, err
	}
	start := off + wordSize
	if start+length > len(block) {
		return nil, &DecodeError{Type: t.String(), Offset: base + start, Reason: "data is truncated"}
	}
	out := make([]byte, length)
	copy(out, block[start:start+length])
	return out, nil
}

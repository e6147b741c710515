package abi

import (
	"github.com/pkg/errors"
)

// IndexedHash is the value surfaced for a dynamic indexed event parameter:
// the log stores only keccak256 of the content, so the content itself is
// unrecoverable.
type IndexedHash [32]byte

// DecodeLog decodes an event log. Indexed parameters come from the topics
// (static ones decoded in place, dynamic ones surfaced as IndexedHash);
// the remaining parameters are decoded from the data section. Values are
// returned in declaration order.
func DecodeLog(event *Item, topics [][32]byte, data []byte) ([]interface{}, error) {
	if event.Type != ItemEvent {
		return nil, errors.Errorf("abi: %s %q is not an event", event.Type, event.Name)
	}

	next := 0
	if !event.Anonymous {
		if len(topics) == 0 {
			return nil, errors.Errorf("abi: event %q log has no signature topic", event.Name)
		}
		if topics[0] != event.Topic() {
			return nil, errors.Errorf("abi: log topic does not match event %q", event.Name)
		}
		next = 1
	}

	var dataParams []Param
	for _, p := range event.Inputs {
		if !p.Indexed {
			dataParams = append(dataParams, p)
		}
	}
	dataVals, err := DecodeArgs(dataParams, data)
	if err != nil {
		return nil, err
	}

	vals := make([]interface{}, len(event.Inputs))
	dataIdx := 0
	for i, p := range event.Inputs {
		if !p.Indexed {
			vals[i] = dataVals[dataIdx]
			dataIdx++
			continue
		}

		if next >= len(topics) {
			return nil, errors.Errorf("abi: event %q needs %d topics, log has %d", event.Name, next+1, len(topics))
		}
		topic := topics[next]
		next++

		if indexedAsHash(p.Type) {
			vals[i] = IndexedHash(topic)
			continue
		}
		val, err := decodeValue(p.Type, topic[:], 0, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "abi: event %q indexed parameter %q", event.Name, p.Name)
		}
		vals[i] = val
	}

	return vals, nil
}

// indexedAsHash reports whether an indexed parameter of this type is stored
// in the topic as a hash of its content rather than the content itself.
// That covers every non-elementary type, not just the dynamic ones.
func indexedAsHash(t Type) bool {
	switch t.Kind {
	case KindString, KindBytes, KindArray, KindFixedArray, KindTuple:
		return true
	}
	return false
}

package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/chainforge/walletcore/jsonval"
)

// ItemType classifies an ABI item.
type ItemType string

// The ABI item classes this codec understands.
const (
	ItemFunction    ItemType = "function"
	ItemEvent       ItemType = "event"
	ItemError       ItemType = "error"
	ItemConstructor ItemType = "constructor"
)

// Item is one entry of an ABI schema.
type Item struct {
	Type            ItemType
	Name            string
	Inputs          []Param
	Outputs         []Param
	StateMutability string // functions only
	Anonymous       bool   // events only
}

// Signature renders the canonical signature string, e.g.
// "transfer(address,uint256)".
func (it *Item) Signature() string {
	parts := make([]string, len(it.Inputs))
	for i, p := range it.Inputs {
		parts[i] = p.Type.String()
	}
	return it.Name + "(" + strings.Join(parts, ",") + ")"
}

// Selector returns the first four bytes of keccak256 of the signature, used
// to dispatch function and custom-error call data.
func (it *Item) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(it.Signature())))
	return sel
}

// Topic returns the full keccak256 of the signature, used as an event's
// first log topic.
func (it *Item) Topic() [32]byte {
	var topic [32]byte
	copy(topic[:], crypto.Keccak256([]byte(it.Signature())))
	return topic
}

// Contract is a parsed ABI schema with lookup indexes.
type Contract struct {
	Constructor *Item
	Functions   []*Item
	Events      []*Item
	Errors      []*Item

	funcsByName      map[string][]*Item
	funcsBySelector  map[[4]byte]*Item
	errorsBySelector map[[4]byte]*Item
	eventsByTopic    map[[32]byte]*Item
	eventsByName     map[string][]*Item
}

// ParseJSON parses a standard Solidity ABI JSON array into a Contract. Any
// unrecognized type string fails here; encode and decode never see one.
func ParseJSON(data []byte) (*Contract, error) {
	doc, err := jsonval.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "abi: schema is not valid JSON")
	}

	entries, err := doc.Array()
	if err != nil {
		return nil, schemaErrorf("document is not a JSON array")
	}

	contract := &Contract{
		funcsByName:      make(map[string][]*Item),
		funcsBySelector:  make(map[[4]byte]*Item),
		errorsBySelector: make(map[[4]byte]*Item),
		eventsByTopic:    make(map[[32]byte]*Item),
		eventsByName:     make(map[string][]*Item),
	}

	for i, entry := range entries {
		item, err := parseItem(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "abi: schema entry %d", i)
		}
		if item == nil {
			// fallback/receive entries carry no callable surface
			continue
		}

		switch item.Type {
		case ItemConstructor:
			if contract.Constructor != nil {
				return nil, schemaErrorf("multiple constructors")
			}
			contract.Constructor = item
		case ItemFunction:
			contract.Functions = append(contract.Functions, item)
			contract.funcsByName[item.Name] = append(contract.funcsByName[item.Name], item)
			contract.funcsBySelector[item.Selector()] = item
		case ItemEvent:
			contract.Events = append(contract.Events, item)
			contract.eventsByTopic[item.Topic()] = item
			contract.eventsByName[item.Name] = append(contract.eventsByName[item.Name], item)
		case ItemError:
			contract.Errors = append(contract.Errors, item)
			contract.errorsBySelector[item.Selector()] = item
		}
	}

	return contract, nil
}

func parseItem(entry jsonval.Value) (*Item, error) {
	if entry.Kind() != jsonval.KindObject {
		return nil, schemaErrorf("entry is not a JSON object")
	}

	itemType := "function"
	if v, ok := entry.Get("type"); ok {
		s, err := v.Str()
		if err != nil {
			return nil, schemaErrorf(`"type" is not a string`)
		}
		itemType = s
	}

	switch ItemType(itemType) {
	case ItemFunction, ItemEvent, ItemError, ItemConstructor:
	default:
		switch itemType {
		case "fallback", "receive":
			return nil, nil
		}
		return nil, schemaErrorf("unsupported item type %q", itemType)
	}

	item := &Item{Type: ItemType(itemType)}

	if v, ok := entry.Get("name"); ok {
		s, err := v.Str()
		if err != nil {
			return nil, schemaErrorf(`"name" is not a string`)
		}
		item.Name = s
	}
	if item.Name == "" && item.Type != ItemConstructor {
		return nil, schemaErrorf("%s item has no name", item.Type)
	}

	var err error
	if item.Inputs, err = parseParams(entry, "inputs"); err != nil {
		return nil, err
	}
	if item.Outputs, err = parseParams(entry, "outputs"); err != nil {
		return nil, err
	}

	if v, ok := entry.Get("stateMutability"); ok {
		if item.StateMutability, err = v.Str(); err != nil {
			return nil, schemaErrorf(`"stateMutability" is not a string`)
		}
	}
	if v, ok := entry.Get("anonymous"); ok {
		if item.Anonymous, err = v.Bool(); err != nil {
			return nil, schemaErrorf(`"anonymous" is not a bool`)
		}
	}

	return item, nil
}

func parseParams(entry jsonval.Value, key string) ([]Param, error) {
	v, ok := entry.Get(key)
	if !ok || v.IsNull() {
		return nil, nil
	}

	elems, err := v.Array()
	if err != nil {
		return nil, schemaErrorf("%q is not an array", key)
	}

	params := make([]Param, 0, len(elems))
	for i, elem := range elems {
		param, err := parseParam(elem)
		if err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", key, i)
		}
		params = append(params, param)
	}
	return params, nil
}

func parseParam(entry jsonval.Value) (Param, error) {
	if entry.Kind() != jsonval.KindObject {
		return Param{}, schemaErrorf("parameter is not a JSON object")
	}

	var param Param

	if v, ok := entry.Get("name"); ok && !v.IsNull() {
		s, err := v.Str()
		if err != nil {
			return Param{}, schemaErrorf(`parameter "name" is not a string`)
		}
		param.Name = s
	}

	typeStr := ""
	if v, ok := entry.Get("type"); ok {
		s, err := v.Str()
		if err != nil {
			return Param{}, schemaErrorf(`parameter "type" is not a string`)
		}
		typeStr = s
	}
	if typeStr == "" {
		return Param{}, schemaErrorf("parameter has no type")
	}

	var components []Param
	if v, ok := entry.Get("components"); ok && !v.IsNull() {
		elems, err := v.Array()
		if err != nil {
			return Param{}, schemaErrorf(`"components" is not an array`)
		}
		components = make([]Param, 0, len(elems))
		for i, elem := range elems {
			component, err := parseParam(elem)
			if err != nil {
				return Param{}, errors.Wrapf(err, "components[%d]", i)
			}
			components = append(components, component)
		}
	}

	parsed, err := ParseType(typeStr, components)
	if err != nil {
		return Param{}, err
	}
	param.Type = parsed

	if v, ok := entry.Get("indexed"); ok && !v.IsNull() {
		indexed, err := v.Bool()
		if err != nil {
			return Param{}, schemaErrorf(`parameter "indexed" is not a bool`)
		}
		param.Indexed = indexed
	}

	return param, nil
}

// MethodByName looks up a function by plain name or, for overloads, by its
// full signature form "name(type,...)".
func (c *Contract) MethodByName(name string) (*Item, error) {
	if strings.ContainsRune(name, '(') {
		for _, item := range c.Functions {
			if item.Signature() == name {
				return item, nil
			}
		}
		return nil, errors.Wrapf(ErrItemNotFound, "function %q", name)
	}

	matches := c.funcsByName[name]
	switch len(matches) {
	case 0:
		return nil, errors.Wrapf(ErrItemNotFound, "function %q", name)
	case 1:
		return matches[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousName, "function %q has %d overloads", name, len(matches))
}

// MethodBySelector looks up a function by its 4-byte selector.
func (c *Contract) MethodBySelector(selector [4]byte) (*Item, error) {
	if item, ok := c.funcsBySelector[selector]; ok {
		return item, nil
	}
	return nil, errors.Wrapf(ErrItemNotFound, "function with selector %x", selector)
}

// ErrorBySelector looks up a custom error by its 4-byte selector.
func (c *Contract) ErrorBySelector(selector [4]byte) (*Item, error) {
	if item, ok := c.errorsBySelector[selector]; ok {
		return item, nil
	}
	return nil, errors.Wrapf(ErrItemNotFound, "error with selector %x", selector)
}

// EventByTopic looks up an event by its 32-byte signature topic.
func (c *Contract) EventByTopic(topic [32]byte) (*Item, error) {
	if item, ok := c.eventsByTopic[topic]; ok {
		return item, nil
	}
	return nil, errors.Wrapf(ErrItemNotFound, "event with topic %x", topic)
}

// EventByName looks up an event by plain name or full signature form.
func (c *Contract) EventByName(name string) (*Item, error) {
	if strings.ContainsRune(name, '(') {
		for _, item := range c.Events {
			if item.Signature() == name {
				return item, nil
			}
		}
		return nil, errors.Wrapf(ErrItemNotFound, "event %q", name)
	}

	matches := c.eventsByName[name]
	switch len(matches) {
	case 0:
		return nil, errors.Wrapf(ErrItemNotFound, "event %q", name)
	case 1:
		return matches[0], nil
	}
	return nil, errors.Wrapf(ErrAmbiguousName, "event %q has %d overloads", name, len(matches))
}

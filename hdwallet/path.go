package hdwallet

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PathComponent is one step of a derivation path.
type PathComponent struct {
	Index    uint32 // raw index, without the hardened offset
	Hardened bool
}

// Path is an ordered derivation path, e.g. parsed from "m/44'/60'/0'/0/0".
type Path []PathComponent

// PathError reports a malformed derivation path.
type PathError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	if e.Segment == "" {
		return "hdwallet: invalid path " + strconv.Quote(e.Path) + ": " + e.Reason
	}
	return "hdwallet: invalid path segment " + strconv.Quote(e.Segment) + " in " + strconv.Quote(e.Path) + ": " + e.Reason
}

// ParsePath parses a BIP32 path string. The path must start with "m"; each
// segment is a decimal index optionally suffixed with ' (or h/H) to mark
// hardened derivation.
func ParsePath(path string) (Path, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "m" && !strings.HasPrefix(trimmed, "m/") {
		return nil, &PathError{Path: path, Reason: `must start with "m"`}
	}
	if trimmed == "m" {
		return Path{}, nil
	}

	segments := strings.Split(trimmed[2:], "/")
	parsed := make(Path, 0, len(segments))
	for _, segment := range segments {
		raw := segment
		hardened := false
		switch {
		case strings.HasSuffix(raw, "'"), strings.HasSuffix(raw, "h"), strings.HasSuffix(raw, "H"):
			hardened = true
			raw = raw[:len(raw)-1]
		}

		index, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, &PathError{Path: path, Segment: segment, Reason: "index is not a 32-bit decimal number"}
		}
		if uint32(index) >= HardenedOffset {
			return nil, &PathError{Path: path, Segment: segment, Reason: "index exceeds the hardened offset"}
		}

		parsed = append(parsed, PathComponent{Index: uint32(index), Hardened: hardened})
	}
	return parsed, nil
}

// String renders the path back to its m/a'/b/c form.
func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, c := range p {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(c.Index), 10))
		if c.Hardened {
			sb.WriteString("'")
		}
	}
	return sb.String()
}

// RawIndex returns the index including the hardened offset when set.
func (c PathComponent) RawIndex() uint32 {
	if c.Hardened {
		return c.Index + HardenedOffset
	}
	return c.Index
}

// Derive folds Child over the parsed path starting from the seed's master
// key. Intermediate keys are wiped before returning.
func Derive(seed []byte, path string) (*ExtendedKey, error) {
	parsed, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	for _, component := range parsed {
		child, err := key.Child(component.RawIndex())
		key.Zero()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child at %d (hardened=%t)", component.Index, component.Hardened)
		}
		key = child
	}
	return key, nil
}

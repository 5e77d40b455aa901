// Package identifier encodes the composite record key used as the stable
// external identifier of a harvested record.
//
// An identifier is an ordered list of type=value pairs joined by ';'. The last
// pair is the leaf identity; earlier pairs record where the leaf was found.
package identifier

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the kind of node an identifier segment refers to.
type Type string

const (
	TypeCatalog    Type = "catalog"
	TypeDataset    Type = "dataset"
	TypeDataSeries Type = "dataseries"
)

const (
	pairSep  = ";"
	valueSep = "="
)

// ErrFormat is matched by every identifier format error.
var ErrFormat = errors.New("invalid identifier format")

// FormatError reports a guid that does not split into type=value pairs.
type FormatError struct {
	GUID   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.GUID, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) true for every FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Identifier is an immutable composite record key.
type Identifier struct {
	guid string
}

// New wraps an existing guid. The guid is validated lazily by Type and
// Value, so records persisted with a bad guid can still be addressed.
func New(guid string) Identifier {
	return Identifier{guid: guid}
}

// Of returns a single-segment identifier.
func Of(t Type, value string) Identifier {
	return Identifier{}.Add(t, value)
}

// Parse returns the identifier for guid, or a *FormatError if its leaf
// segment is malformed.
func Parse(guid string) (Identifier, error) {
	id := New(guid)
	if _, _, err := id.leaf(); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// Add returns a new identifier with type=value appended. Segments are not
// deduplicated and types are not checked.
func (id Identifier) Add(t Type, value string) Identifier {
	seg := string(t) + valueSep + value
	if id.guid == "" {
		return Identifier{guid: seg}
	}
	return Identifier{guid: id.guid + pairSep + seg}
}

// String returns the guid verbatim.
func (id Identifier) String() string {
	return id.guid
}

// Type returns the type of the leaf segment.
func (id Identifier) Type() (Type, error) {
	t, _, err := id.leaf()
	return t, err
}

// Value returns the value of the leaf segment.
func (id Identifier) Value() (string, error) {
	_, v, err := id.leaf()
	return v, err
}

// Pairs returns every segment in order. A segment without '=' is a format
// error anywhere in the guid.
func (id Identifier) Pairs() ([]Pair, error) {
	if strings.Trim(id.guid, pairSep) == "" {
		return nil, &FormatError{GUID: id.guid, Reason: "empty"}
	}
	var pairs []Pair
	for _, seg := range strings.Split(id.guid, pairSep) {
		if seg == "" {
			continue
		}
		t, v, ok := strings.Cut(seg, valueSep)
		if !ok {
			return nil, &FormatError{GUID: id.guid, Reason: fmt.Sprintf("segment %q has no %q", seg, valueSep)}
		}
		pairs = append(pairs, Pair{Type: Type(t), Value: v})
	}
	return pairs, nil
}

// Pair is one type=value segment.
type Pair struct {
	Type  Type
	Value string
}

// leaf parses only the last segment, splitting on the first '=' so values
// may themselves contain '='.
func (id Identifier) leaf() (Type, string, error) {
	if strings.TrimSpace(id.guid) == "" {
		return "", "", &FormatError{GUID: id.guid, Reason: "empty"}
	}
	last := id.guid
	if i := strings.LastIndex(id.guid, pairSep); i >= 0 {
		last = id.guid[i+1:]
	}
	t, v, ok := strings.Cut(last, valueSep)
	if !ok {
		return "", "", &FormatError{GUID: id.guid, Reason: fmt.Sprintf("leaf segment %q has no %q", last, valueSep)}
	}
	return Type(t), v, nil
}

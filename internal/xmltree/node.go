// Package xmltree turns an XML document into a generic, order-preserving tree
// of scalars, mappings and sequences.
//
// The shape follows the usual XML-to-object conventions: attributes sit under
// the reserved "$" key, mixed text under "_", and repeated sibling elements
// collapse into a single sequence entry. A lone child element is stored as a
// plain value; callers use Items to treat "one" and "many" the same way.
package xmltree

// Reserved mapping keys.
const (
	AttrKey = "$"
	TextKey = "_"
)

// Kind identifies which variant a Node holds.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value Node
}

// Node is a tagged variant: exactly one of scalar, entries or items is
// meaningful, selected by kind. The zero Node is the empty scalar.
type Node struct {
	kind    Kind
	scalar  string
	entries []Entry
	items   []Node
}

// Scalar returns a leaf node holding s.
func Scalar(s string) Node {
	return Node{kind: KindScalar, scalar: s}
}

// Mapping returns a mapping node with entries in the given order.
func Mapping(entries ...Entry) Node {
	return Node{kind: KindMapping, entries: entries}
}

// Sequence returns a sequence node.
func Sequence(items ...Node) Node {
	return Node{kind: KindSequence, items: items}
}

// E is shorthand for building an Entry.
func E(key string, value Node) Entry {
	return Entry{Key: key, Value: value}
}

// Kind reports the variant held by n.
func (n Node) Kind() Kind { return n.kind }

// Text returns the scalar value, or "" for non-scalars.
func (n Node) Text() string {
	if n.kind != KindScalar {
		return ""
	}
	return n.scalar
}

// Entries returns the mapping entries in document order. Nil for non-mappings.
func (n Node) Entries() []Entry {
	if n.kind != KindMapping {
		return nil
	}
	return n.entries
}

// Get looks up key in a mapping. Non-mappings never contain keys.
func (n Node) Get(key string) (Node, bool) {
	for _, e := range n.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Node{}, false
}

// Attr returns the attribute name of an element mapping, or "" when the
// node has no attribute slot or the attribute is missing.
func (n Node) Attr(name string) string {
	attrs, ok := n.Get(AttrKey)
	if !ok {
		return ""
	}
	v, ok := attrs.Get(name)
	if !ok {
		return ""
	}
	return v.Text()
}

// Items normalizes zero-or-more: a sequence yields its elements, any other
// node yields itself as a single element.
func (n Node) Items() []Node {
	if n.kind == KindSequence {
		return n.items
	}
	return []Node{n}
}

// IsEmpty reports whether n carries no content: the empty scalar, a mapping
// without entries, or a sequence without items.
func (n Node) IsEmpty() bool {
	switch n.kind {
	case KindMapping:
		return len(n.entries) == 0
	case KindSequence:
		return len(n.items) == 0
	default:
		return n.scalar == ""
	}
}

// IsContainer reports whether n is a mapping or a sequence.
func (n Node) IsContainer() bool {
	return n.kind == KindMapping || n.kind == KindSequence
}

// Equal reports deep equality, including entry order.
func (n Node) Equal(o Node) bool {
	if n.kind != o.kind {
		return false
	}
	switch n.kind {
	case KindMapping:
		if len(n.entries) != len(o.entries) {
			return false
		}
		for i := range n.entries {
			if n.entries[i].Key != o.entries[i].Key || !n.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return n.scalar == o.scalar
	}
}

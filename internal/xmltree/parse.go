package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// ErrEmptyDocument is returned when the input holds no root element.
var ErrEmptyDocument = errors.New("xmltree: document has no root element")

// element accumulates one open XML element while its children are decoded.
type element struct {
	name  string
	attrs []Entry
	keys  []string
	kids  map[string][]Node
	text  strings.Builder
}

func newElement(se xml.StartElement) *element {
	el := &element{name: qualified(se.Name), kids: make(map[string][]Node)}
	for _, a := range se.Attr {
		el.attrs = append(el.attrs, E(qualified(a.Name), Scalar(a.Value)))
	}
	return el
}

// qualified returns the name as written in the document, prefix included
// ("ns:block", "xmlns:xsi"). Names come from RawToken, so Space holds the
// prefix rather than a resolved namespace URL.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func (el *element) add(name string, child Node) {
	if _, seen := el.kids[name]; !seen {
		el.keys = append(el.keys, name)
	}
	el.kids[name] = append(el.kids[name], child)
}

// node folds the element into its tree form. Text-only elements become
// scalars; everything else becomes a mapping whose entries follow the first
// occurrence of each child name.
func (el *element) node() Node {
	text := strings.TrimSpace(el.text.String())
	if len(el.attrs) == 0 && len(el.keys) == 0 {
		return Scalar(text)
	}
	entries := make([]Entry, 0, len(el.keys)+2)
	if len(el.attrs) > 0 {
		entries = append(entries, E(AttrKey, Mapping(el.attrs...)))
	}
	for _, k := range el.keys {
		kids := el.kids[k]
		if len(kids) == 1 {
			entries = append(entries, E(k, kids[0]))
			continue
		}
		entries = append(entries, E(k, Sequence(kids...)))
	}
	if text != "" {
		entries = append(entries, E(TextKey, Scalar(text)))
	}
	return Mapping(entries...)
}

// Parse decodes a whole XML document. The result is a mapping with a single
// entry keyed by the root element name. Prefixed names keep their prefix, so
// <ns:block> is keyed "ns:block", not "block".
func Parse(r io.Reader) (Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		stack []*element
		root  *Node
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Node{}, fmt.Errorf("xmltree: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return Node{}, fmt.Errorf("xmltree: unexpected element <%s> after document root", qualified(t.Name))
			}
			stack = append(stack, newElement(t))
		case xml.EndElement:
			if len(stack) == 0 {
				return Node{}, fmt.Errorf("xmltree: unexpected </%s>", qualified(t.Name))
			}
			el := stack[len(stack)-1]
			if name := qualified(t.Name); name != el.name {
				return Node{}, fmt.Errorf("xmltree: element <%s> closed by </%s>", el.name, name)
			}
			stack = stack[:len(stack)-1]
			n := el.node()
			if len(stack) == 0 {
				doc := Mapping(E(el.name, n))
				root = &doc
				continue
			}
			stack[len(stack)-1].add(el.name, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if len(stack) > 0 {
		return Node{}, fmt.Errorf("xmltree: unexpected EOF inside <%s>", stack[len(stack)-1].name)
	}
	if root == nil {
		return Node{}, ErrEmptyDocument
	}
	return *root, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (Node, error) {
	return Parse(bytes.NewReader(data))
}

// charsetReader lets the decoder accept documents declared in a non-UTF-8
// encoding (ISO-8859-1 and Windows-1252 are common in PLC exports).
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

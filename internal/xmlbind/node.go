// Package xmlbind is the schema-faithful XML binding layer (component C3).
// It wraps the standard library's streaming xml.Decoder with a small
// generic element tree (Node) that performs case-insensitive element and
// attribute lookups, and a set of scalar decoders (LangString, Duration,
// Instant, PercentType, MeasureType, YesNoType) that understand the
// shape-polymorphism the SCORM/cmi5/xAPI schemas allow.
//
// encoding/xml's struct-tag unmarshalling is case-sensitive and assumes
// one fixed shape per field, which is why the manifest parsers build a
// Node tree here and walk it explicitly instead of unmarshalling directly
// into per-family structs.
package xmlbind

import (
	"fmt"
	"io"
	"strings"

	xmlstd "encoding/xml"
)

// Node is one element of a parsed XML document. Name and attribute keys
// are lower-cased local names (namespace prefixes stripped, except that
// xmlns: and xml: attributes keep their prefix) so that lookups are
// case-insensitive per spec. RawName/RawAttrs retain the original casing
// for diagnostics.
type Node struct {
	Name      string
	RawName   string
	Namespace string
	Attrs     map[string]string
	RawAttrs  map[string]string
	Children  []*Node
	Text      string
	Parent    *Node
}

// Attr returns an attribute value by case-insensitive name.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[strings.ToLower(name)]
	return v, ok
}

// AttrOr returns the named attribute or a default.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Child returns the first child element matching name, case-insensitively,
// or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	lname := strings.ToLower(name)
	for _, c := range n.Children {
		if c.Name == lname {
			return c
		}
	}
	return nil
}

// ChildPath walks a dotted path of element names, e.g. "metadata.schema".
func (n *Node) ChildPath(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, ".") {
		cur = cur.Child(part)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// AllChildren returns every child element matching name, in document
// order, case-insensitively.
func (n *Node) AllChildren(name string) []*Node {
	if n == nil {
		return nil
	}
	lname := strings.ToLower(name)
	var out []*Node
	for _, c := range n.Children {
		if c.Name == lname {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the trimmed text content of the first child matching
// name, or "".
func (n *Node) ChildText(name string) string {
	c := n.Child(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text)
}

// TrimText returns the node's own trimmed text content.
func (n *Node) TrimText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// attrKey reconstructs the qualified attribute name Go's xml.Decoder
// splits apart: "xmlns:foo" arrives as Name{Space:"xmlns", Local:"foo"},
// the default "xmlns" as Name{Space:"", Local:"xmlns"}, and "xml:lang"/
// "xml:base" with Space set to the XML namespace URI
// (http://www.w3.org/XML/1998/namespace). Reconstructing the original
// prefixed form keeps those distinguishable from a bare same-named
// attribute (e.g. "xml:base" from a plain "base"). Any other prefix is
// dropped and only the local name is kept.
func attrKey(name xmlstd.Name) string {
	switch name.Space {
	case "xmlns":
		return "xmlns:" + name.Local
	case "xml", "http://www.w3.org/XML/1998/namespace":
		return "xml:" + name.Local
	default:
		return name.Local
	}
}

// Parse decodes an XML document into a Node tree rooted at the document
// element. It never fails on unknown elements or attributes — schema
// tolerance is the point of this layer; only malformed XML syntax
// produces an error.
func Parse(r io.Reader) (*Node, error) {
	dec := xmlstd.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml syntax error: %w", err)
		}

		switch t := tok.(type) {
		case xmlstd.StartElement:
			node := &Node{
				Name:      strings.ToLower(t.Name.Local),
				RawName:   t.Name.Local,
				Namespace: t.Name.Space,
				Attrs:     make(map[string]string, len(t.Attr)),
				RawAttrs:  make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				key := attrKey(a.Name)
				node.RawAttrs[key] = a.Value
				node.Attrs[strings.ToLower(key)] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				node.Parent = parent
				parent.Children = append(parent.Children, node)
			} else {
				root = node
			}
			stack = append(stack, node)

		case xmlstd.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xmlstd.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xml document has no root element")
	}
	return root, nil
}

// FindNamespaceURIs collects every distinct xmlns / xmlns:prefix
// attribute value declared anywhere in the document, used by the module
// detector (C2) and the sequencing analyzer (C6) to look for known
// schema URIs without needing a namespace-aware unmarshal pass.
func FindNamespaceURIs(n *Node) []string {
	seen := make(map[string]struct{})
	var uris []string
	var walk func(*Node)
	walk = func(cur *Node) {
		for k, v := range cur.RawAttrs {
			if k == "xmlns" || strings.HasPrefix(k, "xmlns:") {
				if _, ok := seen[v]; !ok {
					seen[v] = struct{}{}
					uris = append(uris, v)
				}
			}
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
	return uris
}

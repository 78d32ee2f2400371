package camt

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is one element of a parsed statement document. Names keep their
// document spelling; all lookups are case-insensitive so that dialect
// variations in tag casing do not matter.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// ParseDocument reads an XML document into a Node tree. A decode error
// mid-stream returns whatever was parsed up to that point rather than
// failing the whole document; a document with no parseable elements
// yields an empty root.
func ParseDocument(r io.Reader) *Node {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	root := &Node{Name: "#document"}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF on a clean document, anything else on a truncated
			// or malformed tail; keep the well-formed prefix either way.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].Text += string(t)
		}
	}
	return root
}

// Find walks the chain of names in order, descending to the first
// matching descendant (document order) at every step. Returns nil when
// any step has no match.
func (n *Node) Find(names ...string) *Node {
	cur := n
	for _, name := range names {
		if cur == nil {
			return nil
		}
		cur = cur.first(name)
	}
	return cur
}

func (n *Node) first(name string) *Node {
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			return c
		}
		if m := c.first(name); m != nil {
			return m
		}
	}
	return nil
}

// FindAll returns every descendant with the given name in document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(name)...)
	}
	return out
}

// FindText returns the trimmed text of the first descendant reached by
// the chain of names, reporting whether it was present.
func (n *Node) FindText(names ...string) (string, bool) {
	m := n.Find(names...)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m.Text), true
}

// Attr returns an attribute value by case-insensitive name.
func (n *Node) Attr(name string) (string, bool) {
	for k, v := range n.Attrs {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

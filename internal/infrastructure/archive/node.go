package archive

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is one element of the parsed save document. Text holds the element's
// own character data, trimmed; Children preserves document order.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

// Parse decodes an XML document into a node tree.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
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
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	trimText(root)
	return root, nil
}

func trimText(n *Node) {
	n.Text = strings.TrimSpace(n.Text)
	for _, c := range n.Children {
		trimText(c)
	}
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given name, in order.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Flag reports whether a child with the given name exists. The save format
// uses self-closing elements as "enabled" markers: presence is true even with
// no text content, absence is false. Never treat an empty flag as null.
func (n *Node) Flag(name string) bool {
	return n.Child(name) != nil
}

// TextOf returns the text of the named child, or "" when absent.
func (n *Node) TextOf(name string) string {
	c := n.Child(name)
	if c == nil {
		return ""
	}
	return c.Text
}

// IntOf parses the named child's text as an integer. A missing child is an
// error; use IntOpt for optional fields.
func (n *Node) IntOf(name string) (int, error) {
	c := n.Child(name)
	if c == nil {
		return 0, fmt.Errorf("missing element %s under %s", name, n.Name)
	}
	v, err := strconv.Atoi(c.Text)
	if err != nil {
		return 0, fmt.Errorf("malformed value %q in %s.%s", c.Text, n.Name, name)
	}
	return v, nil
}

// IntOpt parses the named child's text as an integer, returning nil when the
// child is absent or empty.
func (n *Node) IntOpt(name string) (*int, error) {
	c := n.Child(name)
	if c == nil || c.Text == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(c.Text)
	if err != nil {
		return nil, fmt.Errorf("malformed value %q in %s.%s", c.Text, n.Name, name)
	}
	return &v, nil
}

// Int parses the node's own text as an integer.
func (n *Node) Int() (int, error) {
	v, err := strconv.Atoi(n.Text)
	if err != nil {
		return 0, fmt.Errorf("malformed value %q in %s", n.Text, n.Name)
	}
	return v, nil
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	return n.Attrs[name]
}

// IntAttr parses the named attribute as an integer; ok is false when the
// attribute is absent.
func (n *Node) IntAttr(name string) (int, bool, error) {
	s, present := n.Attrs[name]
	if !present {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("malformed attribute %s=%q on %s", name, s, n.Name)
	}
	return v, true, nil
}

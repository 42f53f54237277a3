package xmlbridge

import (
	"strings"
)

// Node is the build-side counterpart of the object form: an ordered element
// tree. Go maps do not preserve key order, so documents are assembled from
// Nodes and encoded with EncodeDocument.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr is a single XML attribute.
type Attr struct {
	Name  string
	Value string
}

// NewNode returns an element node with the given tag name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// SetAttr appends an attribute and returns the node for chaining.
func (n *Node) SetAttr(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Add appends child elements and returns the node for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// SetText sets the element text content and returns the node for chaining.
func (n *Node) SetText(text string) *Node {
	n.Text = text
	return n
}

// EncodeDocument serializes a root node as a standalone XML document with an
// XML declaration and two-space indentation.
func EncodeDocument(root *Node) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	root.encode(&b, 0)
	return []byte(b.String())
}

func (n *Node) encode(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(n.Name)
	for _, attr := range n.Attrs {
		b.WriteString(" ")
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(attr.Value))
		b.WriteString(`"`)
	}

	switch {
	case len(n.Children) == 0 && n.Text == "":
		b.WriteString("/>\n")
	case len(n.Children) == 0:
		b.WriteString(">")
		b.WriteString(escapeText(n.Text))
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteString(">\n")
	default:
		b.WriteString(">\n")
		if n.Text != "" {
			b.WriteString(strings.Repeat("  ", depth+1))
			b.WriteString(escapeText(n.Text))
			b.WriteString("\n")
		}
		for _, child := range n.Children {
			child.encode(b, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteString(">\n")
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", "&#10;", "\t", "&#9;",
	)
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

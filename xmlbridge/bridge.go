// Package xmlbridge converts between XML text and a generic nested-object
// representation.
//
// The object form follows a fixed convention: attributes are keyed with the
// AttrPrefix, element text content lives under TextKey, and a repeated child
// appears as a scalar when it occurs once and as a []any when it occurs more
// than once. Elements with neither attributes nor child elements decode to
// their text content as a plain string.
package xmlbridge

import (
	"bytes"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
	"github.com/pkg/errors"
)

const (
	// AttrPrefix marks attribute keys in the object form.
	AttrPrefix = "@_"
	// TextKey holds element text content in the object form.
	TextKey = "#text"
)

// Parse decodes XML text into the generic object form. The returned map has a
// single key, the root element name. Malformed input is the only error case.
func Parse(data []byte) (map[string]any, error) {
	doc, err := xmldom.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "malformed XML document")
	}
	root := doc.DocumentElement()
	if root == nil {
		return nil, errors.New("malformed XML document: no root element")
	}
	return map[string]any{elementName(root): decodeElement(root)}, nil
}

func elementName(elem xmldom.Element) string {
	return string(elem.NodeName())
}

// decodeElement converts one DOM element into the object form. A leaf element
// without attributes collapses to its text content.
func decodeElement(elem xmldom.Element) any {
	obj := make(map[string]any)

	attrs := elem.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		attr := attrs.Item(i)
		if attr == nil {
			continue
		}
		obj[AttrPrefix+string(attr.NodeName())] = string(attr.NodeValue())
	}

	children := elem.Children()
	for i := uint(0); i < children.Length(); i++ {
		child := children.Item(i)
		if child == nil {
			continue
		}
		name := elementName(child)
		value := decodeElement(child)
		if existing, ok := obj[name]; ok {
			if list, ok := existing.([]any); ok {
				obj[name] = append(list, value)
			} else {
				obj[name] = []any{existing, value}
			}
		} else {
			obj[name] = value
		}
	}

	text := elementText(elem)
	if len(obj) == 0 {
		return text
	}
	if text != "" {
		obj[TextKey] = text
	}
	return obj
}

// elementText collects the direct text nodes of an element.
func elementText(elem xmldom.Element) string {
	var content strings.Builder
	nodes := elem.ChildNodes()
	for i := uint(0); i < nodes.Length(); i++ {
		if node := nodes.Item(i); node != nil && node.NodeType() == 3 { // TEXT_NODE
			content.WriteString(string(node.NodeValue()))
		}
	}
	return strings.TrimSpace(content.String())
}

// Occurrences normalizes a child value into a uniform occurrence list:
// nil becomes empty, a []any stays as-is, anything else is a single
// occurrence. Callers read repeatable children through this helper so the
// scalar-vs-array duality of the object form is handled in exactly one place.
func Occurrences(v any) []any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		return val
	default:
		return []any{val}
	}
}

// AsMap returns the object form of a value, or nil for scalars.
func AsMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// IsAttrKey reports whether an object key names an attribute.
func IsAttrKey(key string) bool {
	return strings.HasPrefix(key, AttrPrefix)
}

// ElementKeys returns the child-element keys of an object (attributes and the
// text key excluded), sorted for deterministic iteration.
func ElementKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		if IsAttrKey(key) || key == TextKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

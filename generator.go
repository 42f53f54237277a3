package xsd

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/SaeedKokash/xsd-editor-app/xmlbridge"
)

// GenerateXSD serializes a schema model back to XSD document text, pretty
// printed with two-space indentation. Child ordering is stable: complex
// types, then simple types, then top-level elements, attributes, and groups.
// Parsing the output reproduces an equivalent model, including nested
// sequence/choice structure.
func GenerateXSD(schema *Schema) ([]byte, error) {
	if schema == nil {
		return nil, errors.New("generate XSD: nil schema")
	}

	root := xmlbridge.NewNode("xs:schema").
		SetAttr("xmlns:xs", XSDNamespace).
		SetAttr("targetNamespace", schema.TargetNamespace).
		SetAttr("elementFormDefault", defaultString(schema.ElementFormDefault, "qualified")).
		SetAttr("attributeFormDefault", defaultString(schema.AttributeFormDefault, "unqualified"))

	for _, ct := range schema.ComplexTypes {
		root.Add(complexTypeNode(ct, ct.Name))
	}
	for _, st := range schema.SimpleTypes {
		root.Add(simpleTypeNode(st))
	}
	for _, decl := range schema.Elements {
		root.Add(elementNode(decl))
	}
	for _, attr := range schema.Attributes {
		root.Add(attributeNode(attr))
	}
	for _, group := range schema.Groups {
		node := xmlbridge.NewNode("xs:group").SetAttr("name", group.Name)
		addAnnotation(node, group.Documentation)
		root.Add(node)
	}

	return xmlbridge.EncodeDocument(root), nil
}

func complexTypeNode(ct *ComplexType, name string) *xmlbridge.Node {
	node := xmlbridge.NewNode("xs:complexType")
	if name != "" {
		node.SetAttr("name", name)
	}
	addAnnotation(node, ct.Documentation)

	switch {
	case ct.BaseType != "" && ct.Content == nil:
		// Simple content: text of the base type plus attributes.
		ext := xmlbridge.NewNode("xs:extension").SetAttr("base", ct.BaseType)
		addAttributeNodes(ext, ct.Attributes)
		node.Add(xmlbridge.NewNode("xs:simpleContent").Add(ext))
	case ct.BaseType != "":
		ext := xmlbridge.NewNode("xs:extension").SetAttr("base", ct.BaseType)
		ext.Add(groupNode(ct.Content))
		addAttributeNodes(ext, ct.Attributes)
		node.Add(xmlbridge.NewNode("xs:complexContent").Add(ext))
	default:
		if ct.Content != nil {
			node.Add(groupNode(ct.Content))
		}
		addAttributeNodes(node, ct.Attributes)
	}
	return node
}

func groupNode(g *Group) *xmlbridge.Node {
	node := xmlbridge.NewNode("xs:" + string(g.Kind))
	if g.MinOccurs != 1 {
		node.SetAttr("minOccurs", g.MinOccurs.String())
	}
	if g.MaxOccurs != 1 {
		node.SetAttr("maxOccurs", g.MaxOccurs.String())
	}
	for _, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			node.Add(elementNode(p))
		case *Group:
			node.Add(groupNode(p))
		}
	}
	return node
}

func elementNode(decl *ElementDecl) *xmlbridge.Node {
	node := xmlbridge.NewNode("xs:element").SetAttr("name", decl.Name)
	if decl.Type != "" {
		node.SetAttr("type", decl.Type)
	}
	node.SetAttr("minOccurs", strconv.Itoa(int(decl.MinOccurs)))
	node.SetAttr("maxOccurs", occursOrOne(decl.MaxOccurs))
	addAnnotation(node, decl.Documentation)
	if decl.ComplexType != nil {
		node.Add(complexTypeNode(decl.ComplexType, ""))
	}
	return node
}

// occursOrOne renders a maxOccurs attribute, defaulting an unset bound to "1".
func occursOrOne(o Occurs) string {
	if o == 0 {
		return "1"
	}
	return o.String()
}

func attributeNode(attr *AttributeDecl) *xmlbridge.Node {
	node := xmlbridge.NewNode("xs:attribute").
		SetAttr("name", attr.Name).
		SetAttr("type", attr.Type).
		SetAttr("use", defaultString(attr.Use, UseOptional))
	addAnnotation(node, attr.Documentation)
	return node
}

func addAttributeNodes(parent *xmlbridge.Node, attrs []*AttributeDecl) {
	for _, attr := range attrs {
		parent.Add(attributeNode(attr))
	}
}

func addAnnotation(parent *xmlbridge.Node, documentation string) {
	if documentation == "" {
		return
	}
	parent.Add(xmlbridge.NewNode("xs:annotation").
		Add(xmlbridge.NewNode("xs:documentation").SetText(documentation)))
}

func simpleTypeNode(st *SimpleType) *xmlbridge.Node {
	node := xmlbridge.NewNode("xs:simpleType").SetAttr("name", st.Name)
	addAnnotation(node, st.Documentation)
	if st.Base == "" {
		return node
	}

	restriction := xmlbridge.NewNode("xs:restriction").SetAttr("base", st.Base)
	r := st.Restrictions

	enums := r.Enumerations
	if len(enums) == 0 {
		// Legacy payloads carried facets at the top level of the type.
		enums = st.Enumerations
	}
	for _, value := range enums {
		restriction.Add(xmlbridge.NewNode("xs:enumeration").SetAttr("value", value))
	}

	addFacet(restriction, "xs:pattern", defaultString(r.Pattern, st.Pattern))
	addIntFacet(restriction, "xs:minLength", firstInt(r.MinLength, st.MinLength))
	addIntFacet(restriction, "xs:maxLength", firstInt(r.MaxLength, st.MaxLength))
	addIntFacet(restriction, "xs:length", r.Length)
	addIntFacet(restriction, "xs:fractionDigits", r.FractionDigits)
	addIntFacet(restriction, "xs:totalDigits", r.TotalDigits)
	addFacet(restriction, "xs:minInclusive", r.MinInclusive)
	addFacet(restriction, "xs:maxInclusive", r.MaxInclusive)
	addFacet(restriction, "xs:minExclusive", r.MinExclusive)
	addFacet(restriction, "xs:maxExclusive", r.MaxExclusive)
	addFacet(restriction, "xs:whiteSpace", r.WhiteSpace)

	node.Add(restriction)
	return node
}

func addFacet(restriction *xmlbridge.Node, tag, value string) {
	if value != "" {
		restriction.Add(xmlbridge.NewNode(tag).SetAttr("value", value))
	}
}

func addIntFacet(restriction *xmlbridge.Node, tag string, value *int) {
	if value != nil {
		restriction.Add(xmlbridge.NewNode(tag).SetAttr("value", strconv.Itoa(*value)))
	}
}

func firstInt(primary, fallback *int) *int {
	if primary != nil {
		return primary
	}
	return fallback
}

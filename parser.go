package xsd

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/SaeedKokash/xsd-editor-app/xmlbridge"
)

// ParseOption configures ParseXSD.
type ParseOption func(*parseConfig)

type parseConfig struct {
	knownQuirks bool
}

// WithKnownQuirks enables input normalization for known malformed real-world
// schemas (see quirks.go). Off by default.
func WithKnownQuirks() ParseOption {
	return func(cfg *parseConfig) { cfg.knownQuirks = true }
}

// ParseXSD parses XSD document text into the normalized schema model. The
// only error case is malformed XML; structurally odd but well-formed schemas
// parse into whatever model their recognizable parts produce.
func ParseXSD(data []byte, opts ...ParseOption) (*Schema, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := xmlbridge.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse XSD")
	}

	root := schemaRoot(doc)
	schema := &Schema{
		TargetNamespace:      attrOf(root, "targetNamespace"),
		ElementFormDefault:   defaultString(attrOf(root, "elementFormDefault"), "unqualified"),
		AttributeFormDefault: defaultString(attrOf(root, "attributeFormDefault"), "unqualified"),
		ComplexTypes:         extractComplexTypes(root),
		SimpleTypes:          extractSimpleTypes(root),
		Elements:             extractTopLevelElements(root),
		Attributes:           extractAttrDecls(root),
		Groups:               extractGroups(root),
	}

	if cfg.knownQuirks {
		applyKnownQuirks(schema)
	}
	return schema, nil
}

// schemaRoot locates the schema element, tolerating prefixed and unprefixed
// root-key spellings. A document without a recognizable schema key is treated
// as the schema node itself.
func schemaRoot(doc map[string]any) map[string]any {
	for _, key := range []string{"xs:schema", "xsd:schema", "schema"} {
		if node := xmlbridge.AsMap(doc[key]); node != nil {
			return node
		}
	}
	return doc
}

// xsChildren returns the child nodes under a tag, tolerating the xs:/xsd:/
// bare spellings and normalizing absent, scalar, and array shapes into an
// always-array list.
func xsChildren(node map[string]any, local string) []any {
	for _, key := range []string{"xs:" + local, "xsd:" + local, local} {
		if v, ok := node[key]; ok {
			return xmlbridge.Occurrences(v)
		}
	}
	return nil
}

func xsChildMap(node map[string]any, local string) map[string]any {
	for _, child := range xsChildren(node, local) {
		if m := xmlbridge.AsMap(child); m != nil {
			return m
		}
	}
	return nil
}

func attrOf(node map[string]any, name string) string {
	s, _ := node[xmlbridge.AttrPrefix+name].(string)
	return s
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// occursAttr reads an occurrence attribute with the standard defaulting rule:
// absent means def, "unbounded" is symbolic, anything else parses as an
// integer. Unparseable literals fall back to the default.
func occursAttr(node map[string]any, name string, def Occurs) Occurs {
	o, err := ParseOccurs(attrOf(node, name), def)
	if err != nil {
		return def
	}
	return o
}

// documentationOf extracts annotation/documentation text. The documentation
// node may be a bare string or an object whose text node holds the string.
func documentationOf(node map[string]any) string {
	annotation := xsChildMap(node, "annotation")
	if annotation == nil {
		return ""
	}
	for _, doc := range xsChildren(annotation, "documentation") {
		switch d := doc.(type) {
		case string:
			return d
		case map[string]any:
			if text, ok := d[xmlbridge.TextKey].(string); ok {
				return text
			}
		}
	}
	return ""
}

func extractComplexTypes(root map[string]any) []*ComplexType {
	var types []*ComplexType
	for _, raw := range xsChildren(root, "complexType") {
		node := xmlbridge.AsMap(raw)
		if node == nil {
			continue
		}
		types = append(types, extractComplexType(node))
	}
	return types
}

func extractComplexType(node map[string]any) *ComplexType {
	ct := &ComplexType{
		Name:          attrOf(node, "name"),
		Documentation: documentationOf(node),
		Content:       contentGroup(node),
		Attributes:    extractAttrDecls(node),
	}

	if cc := xsChildMap(node, "complexContent"); cc != nil {
		if ext := xsChildMap(cc, "extension"); ext != nil {
			ct.BaseType = attrOf(ext, "base")
			ct.Content = mergeContent(ct.Content, contentGroup(ext))
			ct.Attributes = append(ct.Attributes, extractAttrDecls(ext)...)
		}
	}
	if sc := xsChildMap(node, "simpleContent"); sc != nil {
		if ext := xsChildMap(sc, "extension"); ext != nil {
			ct.BaseType = attrOf(ext, "base")
			ct.Attributes = append(ct.Attributes, extractAttrDecls(ext)...)
		}
	}
	return ct
}

// contentGroup builds the content model from the sequence/choice children of
// a type or extension node. Multiple top-level groups wrap into a synthetic
// sequence so the content stays a single tree.
func contentGroup(node map[string]any) *Group {
	var groups []*Group
	for _, raw := range xsChildren(node, "sequence") {
		if m := xmlbridge.AsMap(raw); m != nil {
			groups = append(groups, buildGroup(m, SequenceGroup))
		}
	}
	for _, raw := range xsChildren(node, "choice") {
		if m := xmlbridge.AsMap(raw); m != nil {
			groups = append(groups, buildGroup(m, ChoiceGroup))
		}
	}
	switch len(groups) {
	case 0:
		return nil
	case 1:
		return groups[0]
	default:
		wrapper := &Group{Kind: SequenceGroup, MinOccurs: 1, MaxOccurs: 1}
		for _, g := range groups {
			wrapper.Particles = append(wrapper.Particles, g)
		}
		return wrapper
	}
}

func mergeContent(a, b *Group) *Group {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Group{Kind: SequenceGroup, MinOccurs: 1, MaxOccurs: 1, Particles: []Particle{a, b}}
}

// buildGroup converts one sequence/choice node into a Group, recursing into
// nested groups so arbitrary nesting is preserved.
func buildGroup(node map[string]any, kind GroupKind) *Group {
	g := &Group{
		Kind:      kind,
		MinOccurs: occursAttr(node, "minOccurs", 1),
		MaxOccurs: occursAttr(node, "maxOccurs", 1),
	}
	for _, raw := range xsChildren(node, "element") {
		if m := xmlbridge.AsMap(raw); m != nil {
			g.Particles = append(g.Particles, buildElementDecl(m))
		}
	}
	for _, raw := range xsChildren(node, "choice") {
		if m := xmlbridge.AsMap(raw); m != nil {
			g.Particles = append(g.Particles, buildGroup(m, ChoiceGroup))
		}
	}
	for _, raw := range xsChildren(node, "sequence") {
		if m := xmlbridge.AsMap(raw); m != nil {
			g.Particles = append(g.Particles, buildGroup(m, SequenceGroup))
		}
	}
	return g
}

func buildElementDecl(node map[string]any) *ElementDecl {
	decl := &ElementDecl{
		Name:          attrOf(node, "name"),
		Type:          attrOf(node, "type"),
		MinOccurs:     occursAttr(node, "minOccurs", 1),
		MaxOccurs:     occursAttr(node, "maxOccurs", 1),
		Documentation: documentationOf(node),
	}
	if inline := xsChildMap(node, "complexType"); inline != nil {
		decl.ComplexType = extractComplexType(inline)
	}
	return decl
}

func extractSimpleTypes(root map[string]any) []*SimpleType {
	var types []*SimpleType
	for _, raw := range xsChildren(root, "simpleType") {
		node := xmlbridge.AsMap(raw)
		if node == nil {
			continue
		}
		st := &SimpleType{
			Name:          attrOf(node, "name"),
			Documentation: documentationOf(node),
		}
		if restriction := xsChildMap(node, "restriction"); restriction != nil {
			st.Base = attrOf(restriction, "base")
			st.Restrictions = extractRestrictions(restriction)
		}
		types = append(types, st)
	}
	return types
}

func extractRestrictions(restriction map[string]any) Restrictions {
	r := Restrictions{}
	for _, raw := range xsChildren(restriction, "enumeration") {
		if m := xmlbridge.AsMap(raw); m != nil {
			if v := attrOf(m, "value"); v != "" {
				r.Enumerations = append(r.Enumerations, v)
			}
		}
	}
	r.Pattern = facetValue(restriction, "pattern")
	r.MinLength = facetInt(restriction, "minLength")
	r.MaxLength = facetInt(restriction, "maxLength")
	r.Length = facetInt(restriction, "length")
	r.FractionDigits = facetInt(restriction, "fractionDigits")
	r.TotalDigits = facetInt(restriction, "totalDigits")
	// Range facet lexical space depends on the base type; keep raw strings.
	r.MinInclusive = facetValue(restriction, "minInclusive")
	r.MaxInclusive = facetValue(restriction, "maxInclusive")
	r.MinExclusive = facetValue(restriction, "minExclusive")
	r.MaxExclusive = facetValue(restriction, "maxExclusive")
	r.WhiteSpace = facetValue(restriction, "whiteSpace")
	return r
}

func facetValue(restriction map[string]any, local string) string {
	if m := xsChildMap(restriction, local); m != nil {
		return attrOf(m, "value")
	}
	return ""
}

func facetInt(restriction map[string]any, local string) *int {
	m := xsChildMap(restriction, local)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(attrOf(m, "value"))
	if err != nil {
		n = 0
	}
	return &n
}

func extractTopLevelElements(root map[string]any) []*ElementDecl {
	var decls []*ElementDecl
	for _, raw := range xsChildren(root, "element") {
		if m := xmlbridge.AsMap(raw); m != nil {
			decls = append(decls, buildElementDecl(m))
		}
	}
	return decls
}

func extractAttrDecls(node map[string]any) []*AttributeDecl {
	var decls []*AttributeDecl
	for _, raw := range xsChildren(node, "attribute") {
		m := xmlbridge.AsMap(raw)
		if m == nil {
			continue
		}
		decls = append(decls, &AttributeDecl{
			Name:          attrOf(m, "name"),
			Type:          attrOf(m, "type"),
			Use:           defaultString(attrOf(m, "use"), UseOptional),
			Documentation: documentationOf(m),
		})
	}
	return decls
}

func extractGroups(root map[string]any) []*GroupDecl {
	var groups []*GroupDecl
	for _, raw := range xsChildren(root, "group") {
		if m := xmlbridge.AsMap(raw); m != nil {
			groups = append(groups, &GroupDecl{
				Name:          attrOf(m, "name"),
				Documentation: documentationOf(m),
			})
		}
	}
	return groups
}

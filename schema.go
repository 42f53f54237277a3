// Package xsd is the structural core of the XSD editor: it parses XSD
// documents into a normalized schema model, validates XML instances against
// that model, and regenerates XSD text from a (possibly edited) model.
//
// The three operations share one data model and stay round-trip consistent:
// whatever ParseXSD produces, Validate interprets and GenerateXSD serializes
// back equivalently.
package xsd

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// XSDNamespace is the XML Schema namespace.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// Occurs is an occurrence bound: a non-negative count or Unbounded.
// It marshals to the UI JSON shape: a number, or the string "unbounded".
type Occurs int

// Unbounded is the symbolic maxOccurs="unbounded" value.
const Unbounded Occurs = -1

// IsUnbounded reports whether the bound is unlimited.
func (o Occurs) IsUnbounded() bool { return o == Unbounded }

func (o Occurs) String() string {
	if o.IsUnbounded() {
		return "unbounded"
	}
	return strconv.Itoa(int(o))
}

// MarshalJSON encodes Unbounded as the string "unbounded" and everything else
// as a number.
func (o Occurs) MarshalJSON() ([]byte, error) {
	if o.IsUnbounded() {
		return json.Marshal("unbounded")
	}
	return json.Marshal(int(o))
}

// UnmarshalJSON accepts a number, a numeric string, or "unbounded". Editing
// clients historically sent occurrence bounds in all three shapes.
func (o *Occurs) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*o = Occurs(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid occurrence bound %s", data)
	}
	parsed, err := ParseOccurs(s, 1)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOccurs parses an occurrence attribute literal. An empty literal yields
// the given default; "unbounded" yields Unbounded; anything else must be an
// integer.
func ParseOccurs(literal string, def Occurs) (Occurs, error) {
	if literal == "" {
		return def, nil
	}
	if literal == "unbounded" {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(literal)
	if err != nil {
		return def, fmt.Errorf("invalid occurrence bound %q", literal)
	}
	return Occurs(n), nil
}

// GroupKind distinguishes the two structural group flavors.
type GroupKind string

const (
	// SequenceGroup requires members per their own occurrence bounds.
	SequenceGroup GroupKind = "sequence"
	// ChoiceGroup requires alternatives per the group's occurrence bounds.
	ChoiceGroup GroupKind = "choice"
)

// Particle is one member of a structural group: an element declaration or a
// nested group. Group nesting is preserved, so sequence/choice structure
// round-trips through the generator exactly.
type Particle interface {
	isParticle()
}

// Group is a sequence or choice of particles with its own occurrence bounds.
type Group struct {
	Kind      GroupKind  `json:"kind"`
	MinOccurs Occurs     `json:"minOccurs"`
	MaxOccurs Occurs     `json:"maxOccurs"`
	Particles []Particle `json:"particles"`
}

func (*Group) isParticle() {}

// UnmarshalJSON decodes the particle union: members carrying a "kind" field
// are nested groups, everything else is an element declaration.
func (g *Group) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind      GroupKind         `json:"kind"`
		MinOccurs *Occurs           `json:"minOccurs"`
		MaxOccurs *Occurs           `json:"maxOccurs"`
		Particles []json.RawMessage `json:"particles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.Kind = raw.Kind
	g.MinOccurs, g.MaxOccurs = 1, 1
	if raw.MinOccurs != nil {
		g.MinOccurs = *raw.MinOccurs
	}
	if raw.MaxOccurs != nil {
		g.MaxOccurs = *raw.MaxOccurs
	}
	g.Particles = nil
	for _, member := range raw.Particles {
		particle, err := unmarshalParticle(member)
		if err != nil {
			return err
		}
		g.Particles = append(g.Particles, particle)
	}
	return nil
}

func unmarshalParticle(data []byte) (Particle, error) {
	var probe struct {
		Kind GroupKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe.Kind == SequenceGroup || probe.Kind == ChoiceGroup {
		group := &Group{}
		if err := json.Unmarshal(data, group); err != nil {
			return nil, err
		}
		return group, nil
	}
	decl := &ElementDecl{}
	if err := json.Unmarshal(data, decl); err != nil {
		return nil, err
	}
	return decl, nil
}

// ElementDecl declares an element, either top-level or as a group particle.
// Type names a built-in XSD type (with or without the xs: prefix) or a
// simple/complex type in the same schema. ComplexType holds an inline
// anonymous type for elements declared with a nested xs:complexType.
type ElementDecl struct {
	Name          string       `json:"name"`
	Type          string       `json:"type,omitempty"`
	MinOccurs     Occurs       `json:"minOccurs"`
	MaxOccurs     Occurs       `json:"maxOccurs"`
	Documentation string       `json:"documentation,omitempty"`
	ComplexType   *ComplexType `json:"complexType,omitempty"`
}

func (*ElementDecl) isParticle() {}

// UnmarshalJSON defaults absent occurrence bounds to 1, the same rule the
// document form applies to absent minOccurs/maxOccurs attributes. Editing
// clients may send declarations carrying only a name and type.
func (decl *ElementDecl) UnmarshalJSON(data []byte) error {
	type plain ElementDecl
	aux := struct {
		MinOccurs *Occurs `json:"minOccurs"`
		MaxOccurs *Occurs `json:"maxOccurs"`
		*plain
	}{plain: (*plain)(decl)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	decl.MinOccurs, decl.MaxOccurs = 1, 1
	if aux.MinOccurs != nil {
		decl.MinOccurs = *aux.MinOccurs
	}
	if aux.MaxOccurs != nil {
		decl.MaxOccurs = *aux.MaxOccurs
	}
	return nil
}

// ComplexType is a named structural type. Content is nil for empty types.
// BaseType names the type extended via complexContent/extension; for types
// with simple content it is the value type of the element text.
type ComplexType struct {
	Name          string           `json:"name"`
	Documentation string           `json:"documentation,omitempty"`
	BaseType      string           `json:"baseType,omitempty"`
	Content       *Group           `json:"content,omitempty"`
	Attributes    []*AttributeDecl `json:"attributes"`
}

// Elements returns the element particles of the content model, flattened in
// document order. Editing paths and unknown-element detection index this view.
func (ct *ComplexType) Elements() []*ElementDecl {
	if ct == nil || ct.Content == nil {
		return nil
	}
	return ct.Content.elementDecls(nil)
}

func (g *Group) elementDecls(acc []*ElementDecl) []*ElementDecl {
	for _, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			acc = append(acc, p)
		case *Group:
			acc = p.elementDecls(acc)
		}
	}
	return acc
}

// Restrictions are the facets of a simple type. Every field is independently
// optional; the zero value constrains nothing. Count facets are coerced to
// ints at parse time; value-range facets stay raw strings because their
// lexical space depends on the base type.
type Restrictions struct {
	Enumerations   []string `json:"enumerations,omitempty"`
	Pattern        string   `json:"pattern,omitempty"`
	MinLength      *int     `json:"minLength,omitempty"`
	MaxLength      *int     `json:"maxLength,omitempty"`
	Length         *int     `json:"length,omitempty"`
	FractionDigits *int     `json:"fractionDigits,omitempty"`
	TotalDigits    *int     `json:"totalDigits,omitempty"`
	MinInclusive   string   `json:"minInclusive,omitempty"`
	MaxInclusive   string   `json:"maxInclusive,omitempty"`
	MinExclusive   string   `json:"minExclusive,omitempty"`
	MaxExclusive   string   `json:"maxExclusive,omitempty"`
	WhiteSpace     string   `json:"whiteSpace,omitempty"`
}

// IsZero reports whether no facet is set.
func (r Restrictions) IsZero() bool {
	return len(r.Enumerations) == 0 && r.Pattern == "" &&
		r.MinLength == nil && r.MaxLength == nil && r.Length == nil &&
		r.FractionDigits == nil && r.TotalDigits == nil &&
		r.MinInclusive == "" && r.MaxInclusive == "" &&
		r.MinExclusive == "" && r.MaxExclusive == "" && r.WhiteSpace == ""
}

// UnmarshalJSON accepts the facet object form, plus the two legacy shapes
// pre-migration clients sent: a list of {type,value} pairs, or a single such
// pair. Legacy shapes are normalized into the facet fields on decode.
func (r *Restrictions) UnmarshalJSON(data []byte) error {
	type plain Restrictions
	var obj plain
	if err := json.Unmarshal(data, &obj); err == nil {
		*r = Restrictions(obj)
		// A bare {type,value} pair also decodes into the object form with
		// every facet empty; sniff for it before accepting an empty result.
		if r.IsZero() {
			var single facetPair
			if err := json.Unmarshal(data, &single); err == nil && single.Type != "" {
				r.applyFacetPair(single)
			}
		}
		return nil
	}

	var pairs []facetPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("invalid restrictions shape: %s", data)
	}
	*r = Restrictions{}
	for _, pair := range pairs {
		r.applyFacetPair(pair)
	}
	return nil
}

type facetPair struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (r *Restrictions) applyFacetPair(pair facetPair) {
	str := func() string {
		var s string
		if err := json.Unmarshal(pair.Value, &s); err == nil {
			return s
		}
		return string(pair.Value)
	}
	num := func() *int {
		var n int
		if err := json.Unmarshal(pair.Value, &n); err == nil {
			return &n
		}
		if parsed, err := strconv.Atoi(str()); err == nil {
			return &parsed
		}
		return nil
	}
	switch pair.Type {
	case "enumeration":
		r.Enumerations = append(r.Enumerations, str())
	case "pattern":
		r.Pattern = str()
	case "minLength":
		r.MinLength = num()
	case "maxLength":
		r.MaxLength = num()
	case "length":
		r.Length = num()
	case "fractionDigits":
		r.FractionDigits = num()
	case "totalDigits":
		r.TotalDigits = num()
	case "minInclusive":
		r.MinInclusive = str()
	case "maxInclusive":
		r.MaxInclusive = str()
	case "minExclusive":
		r.MinExclusive = str()
	case "maxExclusive":
		r.MaxExclusive = str()
	case "whiteSpace":
		r.WhiteSpace = str()
	}
}

// SimpleType is a named scalar type: restriction facets over a base type.
// The loose Enumerations/Pattern/MinLength/MaxLength fields mirror a
// pre-migration payload shape; they are honored only when the corresponding
// Restrictions facet is absent.
type SimpleType struct {
	Name          string       `json:"name"`
	Documentation string       `json:"documentation,omitempty"`
	Base          string       `json:"base"`
	Restrictions  Restrictions `json:"restrictions"`

	Enumerations []string `json:"legacyEnumerations,omitempty"`
	Pattern      string   `json:"legacyPattern,omitempty"`
	MinLength    *int     `json:"legacyMinLength,omitempty"`
	MaxLength    *int     `json:"legacyMaxLength,omitempty"`
}

// Attribute use values.
const (
	UseOptional   = "optional"
	UseRequired   = "required"
	UseProhibited = "prohibited"
)

// AttributeDecl declares an attribute on a complex type or at the top level.
type AttributeDecl struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Use           string `json:"use"`
	Documentation string `json:"documentation,omitempty"`
}

// GroupDecl records a top-level named model group. Only the name and
// documentation are modeled; group references are not resolved.
type GroupDecl struct {
	Name          string `json:"name"`
	Documentation string `json:"documentation,omitempty"`
}

// Schema is the normalized model of one XSD document.
type Schema struct {
	TargetNamespace      string           `json:"targetNamespace"`
	ElementFormDefault   string           `json:"elementFormDefault"`
	AttributeFormDefault string           `json:"attributeFormDefault"`
	ComplexTypes         []*ComplexType   `json:"complexTypes"`
	SimpleTypes          []*SimpleType    `json:"simpleTypes"`
	Elements             []*ElementDecl   `json:"elements"`
	Attributes           []*AttributeDecl `json:"attributes"`
	Groups               []*GroupDecl     `json:"groups"`
}

// ComplexType looks up a named complex type, or nil.
func (s *Schema) ComplexType(name string) *ComplexType {
	for _, ct := range s.ComplexTypes {
		if ct.Name == name {
			return ct
		}
	}
	return nil
}

// SimpleType looks up a named simple type, or nil.
func (s *Schema) SimpleType(name string) *SimpleType {
	for _, st := range s.SimpleTypes {
		if st.Name == name {
			return st
		}
	}
	return nil
}

// Element looks up a top-level element declaration, or nil.
func (s *Schema) Element(name string) *ElementDecl {
	for _, decl := range s.Elements {
		if decl.Name == name {
			return decl
		}
	}
	return nil
}

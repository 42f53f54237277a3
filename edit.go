package xsd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Editing operations are pure transforms: each takes the current model and
// returns a new model differing only in the edited path. Callers own
// versioning and undo.

// Clone deep-copies the schema model.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := &Schema{
		TargetNamespace:      s.TargetNamespace,
		ElementFormDefault:   s.ElementFormDefault,
		AttributeFormDefault: s.AttributeFormDefault,
	}
	for _, ct := range s.ComplexTypes {
		out.ComplexTypes = append(out.ComplexTypes, ct.clone())
	}
	for _, st := range s.SimpleTypes {
		out.SimpleTypes = append(out.SimpleTypes, st.clone())
	}
	for _, decl := range s.Elements {
		out.Elements = append(out.Elements, decl.clone())
	}
	for _, attr := range s.Attributes {
		out.Attributes = append(out.Attributes, attr.clone())
	}
	for _, group := range s.Groups {
		copied := *group
		out.Groups = append(out.Groups, &copied)
	}
	return out
}

func (ct *ComplexType) clone() *ComplexType {
	if ct == nil {
		return nil
	}
	out := &ComplexType{
		Name:          ct.Name,
		Documentation: ct.Documentation,
		BaseType:      ct.BaseType,
		Content:       ct.Content.clone(),
	}
	for _, attr := range ct.Attributes {
		out.Attributes = append(out.Attributes, attr.clone())
	}
	return out
}

func (g *Group) clone() *Group {
	if g == nil {
		return nil
	}
	out := &Group{Kind: g.Kind, MinOccurs: g.MinOccurs, MaxOccurs: g.MaxOccurs}
	for _, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			out.Particles = append(out.Particles, p.clone())
		case *Group:
			out.Particles = append(out.Particles, p.clone())
		}
	}
	return out
}

func (decl *ElementDecl) clone() *ElementDecl {
	if decl == nil {
		return nil
	}
	out := *decl
	out.ComplexType = decl.ComplexType.clone()
	return &out
}

func (st *SimpleType) clone() *SimpleType {
	out := *st
	out.Restrictions = st.Restrictions.clone()
	out.Enumerations = append([]string(nil), st.Enumerations...)
	out.MinLength = cloneInt(st.MinLength)
	out.MaxLength = cloneInt(st.MaxLength)
	return &out
}

func (r Restrictions) clone() Restrictions {
	out := r
	out.Enumerations = append([]string(nil), r.Enumerations...)
	out.MinLength = cloneInt(r.MinLength)
	out.MaxLength = cloneInt(r.MaxLength)
	out.Length = cloneInt(r.Length)
	out.FractionDigits = cloneInt(r.FractionDigits)
	out.TotalDigits = cloneInt(r.TotalDigits)
	return out
}

func (attr *AttributeDecl) clone() *AttributeDecl {
	out := *attr
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}

// ElementPatch is a partial update of an element declaration; nil fields stay
// untouched.
type ElementPatch struct {
	Name          *string `json:"name,omitempty"`
	Type          *string `json:"type,omitempty"`
	MinOccurs     *Occurs `json:"minOccurs,omitempty"`
	MaxOccurs     *Occurs `json:"maxOccurs,omitempty"`
	Documentation *string `json:"documentation,omitempty"`
}

func (p ElementPatch) applyTo(decl *ElementDecl) {
	if p.Name != nil {
		decl.Name = *p.Name
	}
	if p.Type != nil {
		decl.Type = *p.Type
	}
	if p.MinOccurs != nil {
		decl.MinOccurs = *p.MinOccurs
	}
	if p.MaxOccurs != nil {
		decl.MaxOccurs = *p.MaxOccurs
	}
	if p.Documentation != nil {
		decl.Documentation = *p.Documentation
	}
}

// UpdateElement applies a patch to the element at an edit path and returns
// the updated schema. Paths have the form "root.N" for top-level elements or
// "TypeName.N" indexing the flattened element view of a complex type.
func UpdateElement(s *Schema, path string, patch ElementPatch) (*Schema, error) {
	scope, index, err := splitEditPath(path)
	if err != nil {
		return nil, err
	}

	out := s.Clone()
	var target *ElementDecl
	if scope == "root" {
		if index >= len(out.Elements) {
			return nil, errors.Errorf("element index %d out of range for root elements", index)
		}
		target = out.Elements[index]
	} else {
		ct := out.ComplexType(scope)
		if ct == nil {
			return nil, errors.Errorf("complex type '%s' not found", scope)
		}
		elements := ct.Elements()
		if index >= len(elements) {
			return nil, errors.Errorf("element index %d out of range for type '%s'", index, scope)
		}
		target = elements[index]
	}
	patch.applyTo(target)
	return out, nil
}

func splitEditPath(path string) (string, int, error) {
	scope, indexPart, ok := strings.Cut(path, ".")
	if !ok || scope == "" {
		return "", 0, errors.Errorf("invalid element path '%s'", path)
	}
	index, err := strconv.Atoi(indexPart)
	if err != nil || index < 0 {
		return "", 0, errors.Errorf("invalid element index in path '%s'", path)
	}
	return scope, index, nil
}

// AddElement appends an element declaration to a complex type's content,
// creating a sequence for types without one.
func AddElement(s *Schema, typeName string, decl *ElementDecl) (*Schema, error) {
	out := s.Clone()
	ct := out.ComplexType(typeName)
	if ct == nil {
		return nil, errors.Errorf("complex type '%s' not found", typeName)
	}
	if ct.Content == nil {
		ct.Content = &Group{Kind: SequenceGroup, MinOccurs: 1, MaxOccurs: 1}
	}
	ct.Content.Particles = append(ct.Content.Particles, decl.clone())
	return out, nil
}

// RemoveElement removes the first element with the given name from a complex
// type's content model.
func RemoveElement(s *Schema, typeName, elementName string) (*Schema, error) {
	out := s.Clone()
	ct := out.ComplexType(typeName)
	if ct == nil {
		return nil, errors.Errorf("complex type '%s' not found", typeName)
	}
	if ct.Content == nil || !removeFromGroup(ct.Content, elementName) {
		return nil, errors.Errorf("element '%s' not found in type '%s'", elementName, typeName)
	}
	return out, nil
}

func removeFromGroup(g *Group, name string) bool {
	for i, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			if p.Name == name {
				g.Particles = append(g.Particles[:i], g.Particles[i+1:]...)
				return true
			}
		case *Group:
			if removeFromGroup(p, name) {
				return true
			}
		}
	}
	return false
}

// RenameType renames a complex or simple type and rewrites every reference to
// it (element types, base types, simple type bases).
func RenameType(s *Schema, oldName, newName string) (*Schema, error) {
	if newName == "" {
		return nil, errors.New("new type name must not be empty")
	}
	out := s.Clone()

	renamed := false
	if ct := out.ComplexType(oldName); ct != nil {
		ct.Name = newName
		renamed = true
	}
	if st := out.SimpleType(oldName); st != nil {
		st.Name = newName
		renamed = true
	}
	if !renamed {
		return nil, errors.Errorf("type '%s' not found", oldName)
	}

	rewrite := func(ref *string) {
		if *ref == oldName {
			*ref = newName
		}
	}
	for _, ct := range out.ComplexTypes {
		rewrite(&ct.BaseType)
		rewriteGroupTypes(ct.Content, rewrite)
	}
	for _, st := range out.SimpleTypes {
		rewrite(&st.Base)
	}
	for _, decl := range out.Elements {
		rewriteElementTypes(decl, rewrite)
	}
	return out, nil
}

func rewriteGroupTypes(g *Group, rewrite func(*string)) {
	if g == nil {
		return
	}
	for _, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			rewriteElementTypes(p, rewrite)
		case *Group:
			rewriteGroupTypes(p, rewrite)
		}
	}
}

func rewriteElementTypes(decl *ElementDecl, rewrite func(*string)) {
	rewrite(&decl.Type)
	if decl.ComplexType != nil {
		rewrite(&decl.ComplexType.BaseType)
		rewriteGroupTypes(decl.ComplexType.Content, rewrite)
	}
}

// UpdateSimpleTypeRestrictions replaces the facets of a named simple type.
func UpdateSimpleTypeRestrictions(s *Schema, typeName string, r Restrictions) (*Schema, error) {
	out := s.Clone()
	st := out.SimpleType(typeName)
	if st == nil {
		return nil, errors.Errorf("simple type '%s' not found", typeName)
	}
	st.Restrictions = r.clone()
	return out, nil
}

// CheckSchema runs the presence-of-name checks on a schema model. It is the
// only schema self-validation the editor performs.
func CheckSchema(s *Schema) (errorList, warningList []string) {
	errorList = []string{}
	warningList = []string{}

	if len(s.ComplexTypes) == 0 && len(s.SimpleTypes) == 0 && len(s.Elements) == 0 {
		errorList = append(errorList, "Schema must contain at least one type or element definition")
	}
	for i, ct := range s.ComplexTypes {
		if ct.Name == "" {
			errorList = append(errorList, fmt.Sprintf("Complex type at index %d is missing a name", i))
		}
	}
	for i, st := range s.SimpleTypes {
		if st.Name == "" {
			errorList = append(errorList, fmt.Sprintf("Simple type at index %d is missing a name", i))
		}
		if st.Base == "" && len(st.Restrictions.Enumerations) == 0 && len(st.Enumerations) == 0 {
			warningList = append(warningList, fmt.Sprintf("Simple type '%s' has no base type or enumerations", st.Name))
		}
	}
	return errorList, warningList
}

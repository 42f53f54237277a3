package xsd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/SaeedKokash/xsd-editor-app/xmlbridge"
)

// Report is the outcome of validating one XML document against a schema.
// Errors and warnings are human-readable strings carrying an element path.
// Warnings never affect validity.
type Report struct {
	IsValid            bool     `json:"isValid"`
	Errors             []string `json:"errors"`
	Warnings           []string `json:"warnings"`
	ValidatedElement   string   `json:"validatedElement"`
	HasHeaderStructure bool     `json:"hasHeaderStructure"`
}

// Summary is the report digest returned by the service layer.
type Summary struct {
	TotalErrors        int       `json:"totalErrors"`
	TotalWarnings      int       `json:"totalWarnings"`
	ValidatedAt        time.Time `json:"validatedAt"`
	HasHeaderStructure bool      `json:"hasHeaderStructure"`
	ValidatedElement   string    `json:"validatedElement"`
}

// Summary digests the report.
func (r *Report) Summary() Summary {
	return Summary{
		TotalErrors:        len(r.Errors),
		TotalWarnings:      len(r.Warnings),
		ValidatedAt:        time.Now().UTC(),
		HasHeaderStructure: r.HasHeaderStructure,
		ValidatedElement:   r.ValidatedElement,
	}
}

// ValidateOption configures a Validator.
type ValidateOption func(*Validator)

// WithStrictTypes reports unresolved type references as errors instead of
// skipping deeper checks for those elements.
func WithStrictTypes() ValidateOption {
	return func(v *Validator) { v.strictTypes = true }
}

// Validator walks a parsed XML document against a schema model, accumulating
// errors and warnings. A Validator is single-use per document but cheap to
// construct; concurrent validations use independent Validators.
type Validator struct {
	schema      *Schema
	strictTypes bool
	errs        []string
	warnings    []string
}

// NewValidator creates a validator for a schema.
func NewValidator(schema *Schema, opts ...ValidateOption) *Validator {
	v := &Validator{schema: schema}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate parses XML text and validates it against the schema. The only
// error case is malformed XML; everything else is reported as data.
func Validate(data []byte, schema *Schema, opts ...ValidateOption) (*Report, error) {
	return NewValidator(schema, opts...).Validate(data)
}

// ValidateObject validates a document already in the generic object form.
func ValidateObject(doc map[string]any, schema *Schema, opts ...ValidateOption) *Report {
	return NewValidator(schema, opts...).ValidateObject(doc)
}

// Validate parses and validates XML document text.
func (v *Validator) Validate(data []byte) (*Report, error) {
	doc, err := xmlbridge.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "validate XML")
	}
	return v.ValidateObject(doc), nil
}

// ValidateObject validates a document in the generic object form.
func (v *Validator) ValidateObject(doc map[string]any) *Report {
	v.errs = []string{}
	v.warnings = []string{}

	payload, hasHeader := extractDocument(doc)
	report := &Report{HasHeaderStructure: hasHeader}

	keys := xmlbridge.ElementKeys(payload)
	switch {
	case len(keys) == 0:
		v.errorf("XML document has no root element")
	case len(keys) > 1:
		v.errorf("XML document must have exactly one root element")
	}

	if len(keys) > 0 {
		root := keys[0]
		if hasHeader {
			report.ValidatedElement = fmt.Sprintf("%s (extracted from header structure)", root)
		} else {
			report.ValidatedElement = fmt.Sprintf("Root element: %s", root)
		}

		if decl := v.schema.Element(root); decl != nil {
			v.validateElement(payload[root], decl, root)
		} else {
			v.errorf("Root element '%s' not found in schema", root)
		}
	}

	report.Errors = v.errs
	report.Warnings = v.warnings
	report.IsValid = len(report.Errors) == 0
	return report
}

// validateElement checks one element occurrence: required-but-absent, type,
// complex-type children, attributes. A panic inside one element's subtree is
// converted to an error at that path and validation continues elsewhere.
func (v *Validator) validateElement(data any, decl *ElementDecl, path string) {
	defer func() {
		if r := recover(); r != nil {
			v.errorf("Validation error at '%s': %v", path, r)
		}
	}()

	if data == nil {
		if decl.MinOccurs > 0 {
			v.errorf("Required element '%s' is missing", path)
		}
		return
	}

	if decl.Type != "" {
		v.checkType(data, decl.Type, path)
	}

	ct := decl.ComplexType
	if ct == nil && decl.Type != "" {
		ct = v.schema.ComplexType(decl.Type)
	}
	if ct != nil {
		v.validateComplexContent(data, ct, path)
	}
}

// checkType dispatches a value check: complex types first, then named simple
// types, then built-ins. Unresolved names skip deeper checks unless strict
// mode is on.
func (v *Validator) checkType(data any, typeName, path string) {
	if ct := v.schema.ComplexType(typeName); ct != nil {
		// Simple content: the value lives in the text node and checks
		// against the base type; attributes are handled with the children.
		if ct.BaseType != "" {
			if m := xmlbridge.AsMap(data); m != nil {
				if text, ok := m[xmlbridge.TextKey]; ok {
					v.checkType(text, ct.BaseType, path)
					return
				}
			}
		}
		return
	}

	if st := v.schema.SimpleType(typeName); st != nil {
		value, _ := scalarValue(data)
		v.errs = append(v.errs, checkSimpleTypeValue(path, value, st)...)
		return
	}

	if check, ok := lookupBuiltin(typeName); ok {
		value, isScalar := scalarValue(data)
		if !isScalar {
			v.errorf("Element '%s' should be a %s value, got nested elements", path, typeName)
			return
		}
		if err := check(value); err != nil {
			v.errorf("Element '%s' %s", path, err)
		}
		return
	}

	if v.strictTypes {
		v.errorf("Element '%s' has unresolved type '%s'", path, typeName)
	}
}

// scalarValue unwraps a value for scalar checks: the reserved text-node field
// of an object when present, then the bare attribute-value field, otherwise
// the value itself when scalar.
func scalarValue(data any) (string, bool) {
	switch d := data.(type) {
	case string:
		return d, true
	case bool:
		return fmt.Sprintf("%v", d), true
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64), true
	case map[string]any:
		if text, ok := d[xmlbridge.TextKey].(string); ok {
			return text, true
		}
		if raw, ok := d[xmlbridge.AttrPrefix].(string); ok {
			return raw, true
		}
		return "", false
	default:
		return fmt.Sprintf("%v", d), d != nil
	}
}

// validateComplexContent walks a complex type's content model, flags unknown
// children, and checks declared attributes. Scalar data where structure is
// expected behaves as an empty element so required children are reported.
func (v *Validator) validateComplexContent(data any, ct *ComplexType, path string) {
	m := xmlbridge.AsMap(data)
	if m == nil {
		m = map[string]any{}
	}
	if ct.Content != nil {
		v.validateGroup(m, ct.Content, path)
	}
	v.warnUnknownElements(m, ct, path)
	v.validateAttributes(m, ct.Attributes, path)
}

// validateGroup dispatches on group kind. An optional sequence whose members
// are all absent is skipped silently.
func (v *Validator) validateGroup(m map[string]any, g *Group, path string) {
	if g.Kind == ChoiceGroup {
		v.validateChoice(m, g, path)
		return
	}
	if g.MinOccurs == 0 && !groupPresent(g, m) {
		return
	}
	for _, particle := range g.Particles {
		switch p := particle.(type) {
		case *ElementDecl:
			v.validateElementOccurrences(m, p, path)
		case *Group:
			v.validateGroup(m, p, path)
		}
	}
}

// validateChoice enforces choice-group cardinality: no alternative present in
// a required group is an error listing the alternatives; several alternatives
// present in a single-valued group is a warning. Present alternatives are
// validated regardless.
func (v *Validator) validateChoice(m map[string]any, g *Group, path string) {
	var present []Particle
	var presentLabels []string
	labels := make([]string, 0, len(g.Particles))
	for _, particle := range g.Particles {
		label := particleLabel(particle)
		labels = append(labels, label)
		if particlePresent(particle, m) {
			present = append(present, particle)
			presentLabels = append(presentLabels, label)
		}
	}

	if g.MinOccurs > 0 && len(present) == 0 {
		v.errorf("Choice group requires at least one of: %s (in %s)",
			strings.Join(labels, ", "), pathOrRoot(path))
		return
	}
	if g.MaxOccurs == 1 && len(present) > 1 {
		v.warnf("Choice group allows only one element, but found multiple: %s (in %s)",
			strings.Join(presentLabels, ", "), pathOrRoot(path))
	}

	for _, particle := range present {
		switch p := particle.(type) {
		case *ElementDecl:
			v.validateElementOccurrences(m, p, path)
		case *Group:
			v.validateGroup(m, p, path)
		}
	}
}

// validateElementOccurrences normalizes a child's occurrence list and checks
// each occurrence. A single occurrence keeps the plain path; repeated
// occurrences get indexed paths.
func (v *Validator) validateElementOccurrences(m map[string]any, decl *ElementDecl, parentPath string) {
	path := childPath(parentPath, decl.Name)
	occ := xmlbridge.Occurrences(m[decl.Name])

	if len(occ) == 0 {
		v.validateElement(nil, decl, path)
		return
	}
	if decl.MaxOccurs > 0 && Occurs(len(occ)) > decl.MaxOccurs {
		v.errorf("Element '%s' occurs %d times, but at most %s occurrences are allowed",
			path, len(occ), decl.MaxOccurs)
	}
	if len(occ) == 1 {
		v.validateElement(occ[0], decl, path)
		return
	}
	for i, item := range occ {
		v.validateElement(item, decl, fmt.Sprintf("%s[%d]", path, i))
	}
}

// warnUnknownElements reports XML keys not declared anywhere in the content
// model. Unrecognized elements never fail validation.
func (v *Validator) warnUnknownElements(m map[string]any, ct *ComplexType, path string) {
	known := make(map[string]bool)
	for _, decl := range ct.Elements() {
		known[decl.Name] = true
	}
	for _, key := range xmlbridge.ElementKeys(m) {
		if isNumericKey(key) {
			continue
		}
		if !known[key] {
			v.warnf("Unexpected element '%s' found in XML but not defined in schema",
				childPath(path, key))
		}
	}
}

// validateAttributes checks declared attributes: required presence, then a
// lexical check against the declared type when it is a built-in.
func (v *Validator) validateAttributes(m map[string]any, attrs []*AttributeDecl, path string) {
	for _, attr := range attrs {
		if attr == nil || attr.Name == "" {
			continue
		}
		raw, ok := m[xmlbridge.AttrPrefix+attr.Name]
		if !ok {
			if attr.Use == UseRequired {
				v.errorf("Required attribute '%s' is missing from element '%s'", attr.Name, path)
			}
			continue
		}
		if attr.Type == "" {
			continue
		}
		if check, found := lookupBuiltin(attr.Type); found {
			value, _ := scalarValue(raw)
			if err := check(value); err != nil {
				v.errorf("Attribute '%s' in element '%s' %s", attr.Name, path, err)
			}
		}
	}
}

func (v *Validator) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func pathOrRoot(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

func isNumericKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// particlePresent reports whether any element of a particle's subtree occurs
// in the data.
func particlePresent(particle Particle, m map[string]any) bool {
	switch p := particle.(type) {
	case *ElementDecl:
		return m[p.Name] != nil
	case *Group:
		return groupPresent(p, m)
	}
	return false
}

func groupPresent(g *Group, m map[string]any) bool {
	for _, particle := range g.Particles {
		if particlePresent(particle, m) {
			return true
		}
	}
	return false
}

// particleLabel names a choice alternative for report messages.
func particleLabel(particle Particle) string {
	switch p := particle.(type) {
	case *ElementDecl:
		return p.Name
	case *Group:
		names := make([]string, 0, len(p.Particles))
		for _, member := range p.Particles {
			names = append(names, particleLabel(member))
		}
		return strings.Join(names, "/")
	}
	return ""
}

package xsd

// Known-schema quirk passes. These normalize authoring errors observed in
// specific real-world schemas; they are applied only when the caller opts in
// with WithKnownQuirks.

// personIdentificationType is a complex type that, in one circulated ISO 20022
// schema, conflates the birth date/place group into its parent instead of
// nesting it under DtAndPlcOfBirth.
const personIdentificationType = "PersonIdentification13__1"

func applyKnownQuirks(schema *Schema) {
	fixPersonIdentification(schema)
}

// fixPersonIdentification synthesizes the missing DtAndPlcOfBirth declaration
// on PersonIdentification13__1 when the type is present without it.
func fixPersonIdentification(schema *Schema) {
	ct := schema.ComplexType(personIdentificationType)
	if ct == nil {
		return
	}
	for _, decl := range ct.Elements() {
		if decl.Name == "DtAndPlcOfBirth" {
			return
		}
	}

	birth := &ElementDecl{
		Name:          "DtAndPlcOfBirth",
		Type:          "DateAndPlaceOfBirth1",
		MinOccurs:     0,
		MaxOccurs:     1,
		Documentation: "Date and place of birth",
		ComplexType: &ComplexType{
			Content: &Group{
				Kind:      SequenceGroup,
				MinOccurs: 1,
				MaxOccurs: 1,
				Particles: []Particle{
					&ElementDecl{Name: "BirthDt", Type: "ISODate", MinOccurs: 1, MaxOccurs: 1, Documentation: "Birth date"},
					&ElementDecl{Name: "PrvcOfBirth", Type: "Max35Text", MinOccurs: 0, MaxOccurs: 1, Documentation: "Province of birth"},
					&ElementDecl{Name: "CityOfBirth", Type: "Max35Text", MinOccurs: 1, MaxOccurs: 1, Documentation: "City of birth"},
					&ElementDecl{Name: "CtryOfBirth", Type: "CountryCode", MinOccurs: 1, MaxOccurs: 1, Documentation: "Country of birth"},
				},
			},
		},
	}

	if ct.Content == nil {
		ct.Content = &Group{Kind: SequenceGroup, MinOccurs: 1, MaxOccurs: 1}
	}
	ct.Content.Particles = append([]Particle{birth}, ct.Content.Particles...)
}

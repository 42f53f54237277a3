package xsd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Facet checks for named simple types. Messages carry the element path so the
// validation report reads top to bottom without extra context.

// checkSimpleTypeValue applies the restriction facets of a simple type to a
// value and returns the violations. The legacy loose facet fields are honored
// when the corresponding restriction facet is absent.
func checkSimpleTypeValue(path, value string, st *SimpleType) []string {
	var violations []string

	r := st.Restrictions
	value = normalizeWhiteSpace(value, r.WhiteSpace)

	enums := r.Enumerations
	if len(enums) == 0 {
		enums = st.Enumerations
	}
	if len(enums) > 0 && !contains(enums, value) {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must be one of: %s. Got '%s'", path, strings.Join(enums, ", "), value))
	}

	pattern := r.Pattern
	if pattern == "" {
		pattern = st.Pattern
	}
	if pattern != "" {
		if matched, err := matchXSDPattern(pattern, value); err == nil && !matched {
			violations = append(violations, fmt.Sprintf(
				"Element '%s' does not match required pattern: %s", path, pattern))
		}
	}

	minLength := r.MinLength
	if minLength == nil {
		minLength = st.MinLength
	}
	if minLength != nil && len(value) < *minLength {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must have at least %d characters", path, *minLength))
	}
	maxLength := r.MaxLength
	if maxLength == nil {
		maxLength = st.MaxLength
	}
	if maxLength != nil && len(value) > *maxLength {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must have at most %d characters", path, *maxLength))
	}
	if r.Length != nil && len(value) != *r.Length {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must have exactly %d characters", path, *r.Length))
	}

	violations = append(violations, checkDigitFacets(path, value, r)...)
	violations = append(violations, checkRangeFacets(path, value, r)...)
	return violations
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// normalizeWhiteSpace applies the whiteSpace facet before other checks.
func normalizeWhiteSpace(value, mode string) string {
	switch mode {
	case "replace":
		replacer := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
		return replacer.Replace(value)
	case "collapse":
		return strings.Join(strings.Fields(value), " ")
	default:
		return value
	}
}

// matchXSDPattern compiles an XSD pattern (implicitly anchored) and matches
// the value against it.
func matchXSDPattern(pattern, value string) (bool, error) {
	re, err := regexp.Compile("^" + convertXSDRegex(pattern) + "$")
	if err != nil {
		return false, err
	}
	return re.MatchString(value), nil
}

// convertXSDRegex rewrites the XSD character-class shortcuts that differ from
// Go regexp syntax.
func convertXSDRegex(pattern string) string {
	result := pattern
	result = strings.ReplaceAll(result, `\i`, `[_:A-Za-z]`)
	result = strings.ReplaceAll(result, `\c`, `[_:A-Za-z0-9.-]`)
	return result
}

// checkDigitFacets validates totalDigits and fractionDigits against a decimal
// literal. Non-decimal values are left to the base-type check.
func checkDigitFacets(path, value string, r Restrictions) []string {
	if r.TotalDigits == nil && r.FractionDigits == nil {
		return nil
	}
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return nil
	}
	digits := strings.TrimLeft(value, "+-")
	var violations []string
	if r.TotalDigits != nil {
		total := len(strings.ReplaceAll(digits, ".", ""))
		if total > *r.TotalDigits {
			violations = append(violations, fmt.Sprintf(
				"Element '%s' must have at most %d total digits", path, *r.TotalDigits))
		}
	}
	if r.FractionDigits != nil {
		fraction := 0
		if idx := strings.Index(digits, "."); idx >= 0 {
			fraction = len(digits) - idx - 1
		}
		if fraction > *r.FractionDigits {
			violations = append(violations, fmt.Sprintf(
				"Element '%s' must have at most %d fraction digits", path, *r.FractionDigits))
		}
	}
	return violations
}

// checkRangeFacets validates the value-range facets. Facet values are kept as
// raw strings in the model because their lexical space depends on the base
// type; the comparison runs only when both sides parse as decimals.
func checkRangeFacets(path, value string, r Restrictions) []string {
	if r.MinInclusive == "" && r.MaxInclusive == "" && r.MinExclusive == "" && r.MaxExclusive == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	var violations []string
	if bound, ok := parseBound(r.MinInclusive); ok && v < bound {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must be at least %s", path, r.MinInclusive))
	}
	if bound, ok := parseBound(r.MaxInclusive); ok && v > bound {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must be at most %s", path, r.MaxInclusive))
	}
	if bound, ok := parseBound(r.MinExclusive); ok && v <= bound {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must be greater than %s", path, r.MinExclusive))
	}
	if bound, ok := parseBound(r.MaxExclusive); ok && v >= bound {
		violations = append(violations, fmt.Sprintf(
			"Element '%s' must be less than %s", path, r.MaxExclusive))
	}
	return violations
}

func parseBound(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	bound, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return bound, true
}

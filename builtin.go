package xsd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Lexical checks for the built-in XSD types the structural validator covers.
// Unknown names fall through to the unresolved-type path.

var builtinChecks = map[string]func(value string) error{}

func init() {
	builtinChecks["string"] = checkString
	builtinChecks["normalizedString"] = checkString
	builtinChecks["token"] = checkString
	builtinChecks["boolean"] = checkBoolean
	builtinChecks["decimal"] = checkDecimal
	builtinChecks["float"] = checkDecimal
	builtinChecks["double"] = checkDecimal
	builtinChecks["int"] = checkInteger
	builtinChecks["integer"] = checkInteger
	builtinChecks["long"] = checkInteger
	builtinChecks["short"] = checkInteger
	builtinChecks["nonNegativeInteger"] = checkInteger
	builtinChecks["positiveInteger"] = checkInteger
	builtinChecks["date"] = checkDate
	builtinChecks["dateTime"] = checkDateTime
	builtinChecks["time"] = checkTime
}

// lookupBuiltin resolves a built-in type check by name, stripping a namespace
// prefix if present.
func lookupBuiltin(name string) (func(string) error, bool) {
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	check, ok := builtinChecks[name]
	return check, ok
}

func checkString(string) error { return nil }

func checkInteger(value string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
		return fmt.Errorf("should be an integer, got '%s'", value)
	}
	return nil
}

func checkDecimal(value string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return fmt.Errorf("should be a decimal number, got '%s'", value)
	}
	return nil
}

func checkBoolean(value string) error {
	if value != "true" && value != "false" {
		return fmt.Errorf("should be a boolean (true/false), got '%s'", value)
	}
	return nil
}

var dateLayouts = []string{"2006-01-02", "2006-01-02Z07:00"}

func checkDate(value string) error {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("should be a valid date, got '%s'", value)
}

var dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func checkDateTime(value string) error {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("should be a valid dateTime, got '%s'", value)
}

var timeLayouts = []string{"15:04:05", "15:04:05Z07:00"}

func checkTime(value string) error {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("should be a valid time, got '%s'", value)
}

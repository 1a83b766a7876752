package scaffold

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	forgeerrors "github.com/forgelabs/forge/internal/errors"
)

// Field is one entity field parsed from a --fields spec.
type Field struct {
	Name   string // as given, e.g. "unit_price"
	GoName string // exported form, e.g. "UnitPrice"
	Type   string // Go type, e.g. "float64"
}

// typeAliases maps shorthand field types to Go types. Unlisted values must
// already be one of the supported Go types.
var typeAliases = map[string]string{
	"str":    "string",
	"float":  "float64",
	"double": "float64",
	"int":    "int",
	"long":   "int64",
	"bool":   "bool",
	"time":   "time.Time",
}

var supportedTypes = []string{"string", "int", "int64", "float64", "bool", "time.Time"}

var titleCaser = cases.Title(language.English, cases.NoLower)

// ParseFields parses a comma-separated field spec such as
// "name:string,price:float64". A bare name defaults to string, and an empty
// spec yields the single field "name:string".
func ParseFields(spec string) ([]Field, error) {
	var fields []Field
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		name, fieldType := raw, "string"
		if before, after, ok := strings.Cut(raw, ":"); ok {
			name = strings.TrimSpace(before)
			fieldType = strings.TrimSpace(after)
			if fieldType == "" {
				fieldType = "string"
			}
		}

		if !isFieldName(name) {
			return nil, fmt.Errorf("invalid field name %q: must be a lowercase identifier", name)
		}
		if alias, ok := typeAliases[fieldType]; ok {
			fieldType = alias
		}
		if !isSupportedType(fieldType) {
			return nil, forgeerrors.UnknownValueError("field type", fieldType, supportedTypes)
		}

		fields = append(fields, Field{
			Name:   name,
			GoName: exportedName(name),
			Type:   fieldType,
		})
	}

	if len(fields) == 0 {
		fields = []Field{{Name: "name", GoName: "Name", Type: "string"}}
	}
	return fields, nil
}

// NeedsTimeImport reports whether any field uses time.Time.
func NeedsTimeImport(fields []Field) bool {
	for _, f := range fields {
		if f.Type == "time.Time" {
			return true
		}
	}
	return false
}

// exportedName converts snake_case to an exported Go identifier.
func exportedName(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		parts[i] = titleCaser.String(part)
	}
	return strings.Join(parts, "")
}

func isFieldName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLower(r):
		case r == '_' && i > 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

func isSupportedType(fieldType string) bool {
	for _, t := range supportedTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

// Pluralize returns the plural used for package and route names.
func Pluralize(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "ch"):
		return lower + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return lower[:len(lower)-1] + "ies"
	default:
		return lower + "s"
	}
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

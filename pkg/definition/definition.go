// Package definition models declarative record definitions: the input format
// for generating record structs and their typed builders. Definitions come
// from YAML documents authored by hand or are derived from OpenAPI component
// schemas.
package definition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// File is a whole definition document: a target package plus its records.
type File struct {
	// Package is the Go package name generated code belongs to.
	Package string `yaml:"package"`
	// Records lists the record definitions in author order.
	Records []Record `yaml:"records"`
}

// Record defines one record type: an ordered list of named, typed fields.
type Record struct {
	Name   string  `yaml:"name"`
	Doc    string  `yaml:"doc,omitempty"`
	Fields []Field `yaml:"fields"`
}

// Field defines one record field. A field with a default is optional; a
// field without one is required. Default holds the literal exactly as it
// will appear in the generated `default:"..."` struct tag.
type Field struct {
	Name string `yaml:"name"`
	// GoName overrides the exported name derived from Name.
	GoName string `yaml:"go_name,omitempty"`
	// Type is the field's Go type as written in source, e.g. "float64".
	Type     string `yaml:"type"`
	Doc      string `yaml:"doc,omitempty"`
	Required bool   `yaml:"required,omitempty"`
	Default  string `yaml:"default,omitempty"`

	hasDefault bool
}

// HasDefault reports whether the field declared a default. A field whose
// default is the empty string must use this rather than comparing Default to
// "".
func (f Field) HasDefault() bool {
	return f.hasDefault || f.Default != ""
}

// MarkDefault flags the field as defaulted even when the literal is empty
// (an empty-string default on a string field).
func (f *Field) MarkDefault() {
	f.hasDefault = true
}

// ExportedName returns the Go identifier used for the field in generated
// code: GoName when set, otherwise Name converted to an exported camel-case
// identifier.
func (f Field) ExportedName() string {
	if f.GoName != "" {
		return f.GoName
	}
	return ExportIdentifier(f.Name)
}

// RequiredFields returns the record's required fields in author order.
func (r Record) RequiredFields() []Field {
	return r.filter(func(f Field) bool { return !f.HasDefault() })
}

// OptionalFields returns the record's defaulted fields in author order.
func (r Record) OptionalFields() []Field {
	return r.filter(func(f Field) bool { return f.HasDefault() })
}

func (r Record) filter(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range r.Fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks the whole file: legal identifiers, unique names, and no
// required/default conflicts. It fails on the first problem found.
func (f File) Validate() error {
	if f.Package == "" {
		return errors.New("definition: package name is required")
	}
	if !identifierPattern.MatchString(f.Package) {
		return fmt.Errorf("definition: invalid package name %q", f.Package)
	}
	if len(f.Records) == 0 {
		return errors.New("definition: at least one record is required")
	}
	seen := make(map[string]bool, len(f.Records))
	for _, rec := range f.Records {
		if err := rec.Validate(); err != nil {
			return err
		}
		if seen[rec.Name] {
			return fmt.Errorf("definition: duplicate record %q", rec.Name)
		}
		seen[rec.Name] = true
	}
	return nil
}

// Validate checks a single record definition.
func (r Record) Validate() error {
	if r.Name == "" {
		return errors.New("definition: record name is required")
	}
	if !identifierPattern.MatchString(r.Name) {
		return fmt.Errorf("definition: invalid record name %q", r.Name)
	}
	seen := make(map[string]bool, len(r.Fields))
	for _, field := range r.Fields {
		if field.Name == "" {
			return fmt.Errorf("definition: record %q has a field without a name", r.Name)
		}
		if !identifierPattern.MatchString(field.Name) {
			return fmt.Errorf("definition: record %q: invalid field name %q", r.Name, field.Name)
		}
		if field.GoName != "" && !identifierPattern.MatchString(field.GoName) {
			return fmt.Errorf("definition: record %q: invalid go_name %q", r.Name, field.GoName)
		}
		if field.Type == "" {
			return fmt.Errorf("definition: record %q: field %q has no type", r.Name, field.Name)
		}
		if field.Required && field.HasDefault() {
			return fmt.Errorf("definition: record %q: field %q is both required and defaulted", r.Name, field.Name)
		}
		if seen[field.Name] {
			return fmt.Errorf("definition: record %q: duplicate field %q", r.Name, field.Name)
		}
		seen[field.Name] = true
	}
	return nil
}

// ExportIdentifier converts snake_case, kebab-case, or lowerCamel names into
// an exported Go identifier.
func ExportIdentifier(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	var sb strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}

// Package openapi derives record definitions from the component schemas of
// an OpenAPI document, so existing API models can get builders without
// re-declaring their fields by hand.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-structbuilder/pkg/definition"
)

// Option configures a conversion.
type Option func(*config)

type config struct {
	include []string
}

// WithSchemas limits conversion to the named component schemas. Naming a
// schema that is absent or not an object is an error.
func WithSchemas(names ...string) Option {
	return func(cfg *config) {
		cfg.include = append(cfg.include, names...)
	}
}

// Records converts the document's component object schemas into record
// definitions. Required properties become required fields; properties with a
// default (or optional scalar properties, which default to their zero value)
// become optional fields.
//
// JSON objects carry no property order, so fields are emitted in
// alphabetical order. Component schemas that are not objects are skipped
// unless explicitly requested via WithSchemas.
func Records(ctx context.Context, doc definition.Document, opts ...Option) ([]definition.Record, error) {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	raw := doc.Data()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document %s: %w", doc.Name(), err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document has no component schemas")
	}

	names := cfg.include
	explicit := len(names) > 0
	if !explicit {
		for name := range spec.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	var records []definition.Record
	for _, name := range names {
		ref, ok := spec.Components.Schemas[name]
		if !ok {
			return nil, fmt.Errorf("openapi: component schema %q not found", name)
		}
		value := schemaValue(ref)
		if value == nil || !isObject(value) {
			if explicit {
				return nil, fmt.Errorf("openapi: component schema %q is not an object", name)
			}
			continue
		}
		record, err := convertObject(name, value)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, errors.New("openapi: no convertible object schemas found")
	}
	return records, nil
}

func convertObject(name string, src *openapi3.Schema) (definition.Record, error) {
	record := definition.Record{
		Name: definition.ExportIdentifier(name),
		Doc:  src.Description,
	}

	required := make(map[string]bool, len(src.Required))
	for _, field := range src.Required {
		required[field] = true
	}

	properties := make([]string, 0, len(src.Properties))
	for property := range src.Properties {
		properties = append(properties, property)
	}
	sort.Strings(properties)

	for _, property := range properties {
		value := schemaValue(src.Properties[property])
		if value == nil {
			return definition.Record{}, fmt.Errorf("openapi: schema %q: property %q has no value", name, property)
		}
		field, err := convertProperty(name, property, value, required[property])
		if err != nil {
			return definition.Record{}, err
		}
		record.Fields = append(record.Fields, field)
	}
	return record, record.Validate()
}

func convertProperty(schemaName, property string, src *openapi3.Schema, required bool) (definition.Field, error) {
	goType, err := goTypeFor(src)
	if err != nil {
		return definition.Field{}, fmt.Errorf("openapi: schema %q: property %q: %w", schemaName, property, err)
	}

	field := definition.Field{
		Name: property,
		Type: goType,
		Doc:  src.Description,
	}

	switch {
	case required:
		field.Required = true
	case src.Default != nil:
		if !tagDefaultable(goType) {
			return definition.Field{}, fmt.Errorf("openapi: schema %q: property %q: %s fields cannot carry a default", schemaName, property, goType)
		}
		literal, err := defaultLiteral(src.Default, goType)
		if err != nil {
			return definition.Field{}, fmt.Errorf("openapi: schema %q: property %q: %w", schemaName, property, err)
		}
		field.Default = literal
		field.MarkDefault()
	case scalarZero[goType] != "" || goType == "string":
		// Optional scalar without a declared default: the zero value keeps
		// the field optional in the builder model.
		field.Default = scalarZero[goType]
		field.MarkDefault()
	default:
		// Non-scalar defaults cannot be expressed as tag literals; treat the
		// field as required.
		field.Required = true
	}
	return field, nil
}

// tagDefaultable reports whether the type's defaults can be expressed as
// `default` tag literals. time.Time and slice values cannot.
func tagDefaultable(goType string) bool {
	return goType == "string" || scalarZero[goType] != ""
}

// scalarZero maps Go scalar types to their zero literal for the default tag.
// The string zero is the empty literal, handled via MarkDefault.
var scalarZero = map[string]string{
	"bool":    "false",
	"int32":   "0",
	"int64":   "0",
	"float32": "0",
	"float64": "0",
}

func goTypeFor(src *openapi3.Schema) (string, error) {
	switch {
	case typeIs(src, openapi3.TypeBoolean):
		return "bool", nil
	case typeIs(src, openapi3.TypeInteger):
		if src.Format == "int32" {
			return "int32", nil
		}
		return "int64", nil
	case typeIs(src, openapi3.TypeNumber):
		if src.Format == "float" {
			return "float32", nil
		}
		return "float64", nil
	case typeIs(src, openapi3.TypeString):
		if src.Format == "date-time" || src.Format == "date" {
			return "time.Time", nil
		}
		return "string", nil
	case typeIs(src, openapi3.TypeArray):
		elem := schemaValue(src.Items)
		if elem == nil {
			return "", errors.New("array property has no items schema")
		}
		elemType, err := goTypeFor(elem)
		if err != nil {
			return "", err
		}
		return "[]" + elemType, nil
	}
	return "", fmt.Errorf("unsupported property type %s", typeString(src))
}

func defaultLiteral(value any, goType string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		switch goType {
		case "int32", "int64":
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return "", fmt.Errorf("unsupported default value %v (%T)", value, value)
}

func schemaValue(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil {
		return nil
	}
	return ref.Value
}

func isObject(src *openapi3.Schema) bool {
	if typeIs(src, openapi3.TypeObject) {
		return true
	}
	// Untyped schemas with properties are treated as objects, matching
	// common OpenAPI authoring practice.
	return typeString(src) == "" && len(src.Properties) > 0
}

func typeIs(src *openapi3.Schema, kind string) bool {
	return src.Type != nil && src.Type.Is(kind)
}

func typeString(src *openapi3.Schema) string {
	if src.Type == nil {
		return ""
	}
	values := src.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Package codegen renders typed per-record builders ahead of time: for each
// record definition it emits the record struct (defaults encoded as
// `default` tags) and a chainable builder type wrapping
// builder.Builder[T], so generated code inherits the generic builder's
// validation semantics instead of duplicating them.
package codegen

import (
	"embed"
	"fmt"
	"go/format"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-structbuilder/pkg/definition"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

const recordsTemplate = "records"

// reservedMethods are claimed by the generated builder type; a field whose
// exported name collides with one cannot get a setter.
var reservedMethods = map[string]bool{
	"Build": true,
	"Apply": true,
	"Err":   true,
}

// defaultableTypes are the field types whose defaults can live in a
// `default:"..."` struct tag. A default on any other type would make every
// builder constructed for the generated record fail at describe time.
var defaultableTypes = map[string]bool{
	"string":  true,
	"bool":    true,
	"int":     true,
	"int8":    true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"uint":    true,
	"uint8":   true,
	"uint16":  true,
	"uint32":  true,
	"uint64":  true,
	"byte":    true,
	"rune":    true,
	"float32": true,
	"float64": true,
}

// Option configures a Generator.
type Option func(*config)

type config struct {
	engine *Engine
}

// WithEngine substitutes a custom template engine, e.g. one loading
// overridden templates from disk.
func WithEngine(engine *Engine) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// Generator renders record definitions into gofmt-formatted Go source.
type Generator struct {
	engine *Engine
}

// New constructs a Generator over the embedded templates unless WithEngine
// overrides them.
func New(opts ...Option) (*Generator, error) {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	engine := cfg.engine
	if engine == nil {
		templates, err := fs.Sub(templatesFS, "templates")
		if err != nil {
			return nil, fmt.Errorf("codegen: embedded templates: %w", err)
		}
		engine, err = NewEngine(WithFS(templates))
		if err != nil {
			return nil, err
		}
	}
	return &Generator{engine: engine}, nil
}

// File renders one source file containing every record and its builder. The
// output is passed through go/format before it is returned.
func (g *Generator) File(file definition.File) ([]byte, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}
	for _, record := range file.Records {
		if err := checkGeneratable(record); err != nil {
			return nil, err
		}
	}

	rendered, err := g.engine.Render(recordsTemplate, fileContext(file))
	if err != nil {
		return nil, err
	}

	formatted, err := format.Source([]byte(rendered))
	if err != nil {
		return nil, fmt.Errorf("codegen: format generated source: %w", err)
	}
	return formatted, nil
}

// checkGeneratable rejects definitions that validate but cannot be expressed
// in generated code.
func checkGeneratable(record definition.Record) error {
	if len(record.Fields) == 0 {
		return fmt.Errorf("codegen: record %q has no fields", record.Name)
	}
	seen := make(map[string]bool, len(record.Fields))
	for _, field := range record.Fields {
		name := field.ExportedName()
		if name == "" {
			return fmt.Errorf("codegen: record %q: field %q has no exported name", record.Name, field.Name)
		}
		if reservedMethods[name] {
			return fmt.Errorf("codegen: record %q: field name %q collides with a builder method", record.Name, name)
		}
		if seen[name] {
			return fmt.Errorf("codegen: record %q: fields %q map to the same exported name", record.Name, name)
		}
		seen[name] = true
		if field.HasDefault() && !defaultableTypes[field.Type] {
			return fmt.Errorf("codegen: record %q: field %q: %s fields cannot carry a default tag", record.Name, field.Name, field.Type)
		}
		if strings.ContainsAny(field.Default, "`\"") {
			return fmt.Errorf("codegen: record %q: field %q: default %q cannot appear in a struct tag", record.Name, field.Name, field.Default)
		}
	}
	return nil
}

func fileContext(file definition.File) map[string]any {
	records := make([]map[string]any, 0, len(file.Records))
	stdImports := map[string]bool{}

	for _, record := range file.Records {
		fields := make([]map[string]any, 0, len(record.Fields))
		for _, field := range record.Fields {
			if pkg := stdQualifier(field.Type); pkg != "" {
				stdImports[pkg] = true
			}
			fields = append(fields, map[string]any{
				"name":    field.Name,
				"go_name": field.ExportedName(),
				"type":    field.Type,
				"tag":     fieldTag(field),
			})
		}
		records = append(records, map[string]any{
			"name":   record.Name,
			"doc":    docLine(record.Doc),
			"fields": fields,
		})
	}

	imports := make([]string, 0, len(stdImports))
	for pkg := range stdImports {
		imports = append(imports, pkg)
	}
	sort.Strings(imports)

	return map[string]any{
		"package":     file.Package,
		"std_imports": imports,
		"records":     records,
	}
}

// fieldTag renders the `default` tag for optional fields; required fields
// carry no tag.
func fieldTag(field definition.Field) string {
	if !field.HasDefault() {
		return ""
	}
	return fmt.Sprintf("`default:%q`", field.Default)
}

// stdQualifier maps a qualified field type to the stdlib package it needs.
func stdQualifier(goType string) string {
	trimmed := strings.TrimLeft(goType, "[]*")
	if strings.HasPrefix(trimmed, "time.") {
		return "time"
	}
	return ""
}

// docLine flattens a definition doc string into a single comment line.
func docLine(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}

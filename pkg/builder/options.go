package builder

import (
	"sort"

	"github.com/goliatone/go-structbuilder/pkg/schema"
)

// Option configures a Builder at construction time.
type Option func(*config)

type config struct {
	recordType *schema.RecordType
	schemaOpts []schema.Option
	seeds      []seed
}

type seed struct {
	name  string
	value any
}

// WithSchema reuses an already-described RecordType instead of describing the
// builder's type parameter. Required when the description was built with
// schema options (registered defaults, exclusions).
func WithSchema(rt *schema.RecordType) Option {
	return func(cfg *config) {
		cfg.recordType = rt
	}
}

// WithSchemaOptions forwards options to the schema description performed by
// New. Ignored when WithSchema is also given.
func WithSchemaOptions(opts ...schema.Option) Option {
	return func(cfg *config) {
		cfg.schemaOpts = append(cfg.schemaOpts, opts...)
	}
}

// WithValue seeds a single field, exactly as a post-construction Set would.
func WithValue(name string, value any) Option {
	return func(cfg *config) {
		cfg.seeds = append(cfg.seeds, seed{name: name, value: value})
	}
}

// WithValues seeds several fields at once. Each key must name a settable
// field; seeding fails with the same errors Set raises.
func WithValues(values map[string]any) Option {
	return func(cfg *config) {
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		// Deterministic seed application so error reporting is stable.
		sort.Strings(names)
		for _, name := range names {
			cfg.seeds = append(cfg.seeds, seed{name: name, value: values[name]})
		}
	}
}

// FieldsOption narrows the descriptor set returned by Fields.
type FieldsOption func(*fieldsConfig)

type fieldsConfig struct {
	required bool
	optional bool
}

// WithoutRequired drops required fields from the Fields result.
func WithoutRequired() FieldsOption {
	return func(cfg *fieldsConfig) {
		cfg.required = false
	}
}

// WithoutOptional drops optional fields from the Fields result.
func WithoutOptional() FieldsOption {
	return func(cfg *fieldsConfig) {
		cfg.optional = false
	}
}

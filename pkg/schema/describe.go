package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
)

const (
	builderTagKey = "builder"
	defaultTagKey = "default"
)

// cache stores option-free descriptions keyed by reflect.Type. Description is
// a pure function of the type, so cached entries never expire.
var cache sync.Map // reflect.Type -> *RecordType

// Option customises a single Describe call. Described types built with
// options are not cached.
type Option func(*config)

type config struct {
	defaults  map[string]any
	factories map[string]func() any
	excluded  map[string]bool
}

// WithDefault registers a static default for the named field, making it
// optional. The value must be assignable to the field's declared type.
func WithDefault(name string, value any) Option {
	return func(cfg *config) {
		if cfg.defaults == nil {
			cfg.defaults = make(map[string]any)
		}
		cfg.defaults[name] = value
	}
}

// WithDefaultFunc registers a default factory for the named field, making it
// optional. The factory runs on every build so mutable defaults are never
// shared.
func WithDefaultFunc(name string, fn func() any) Option {
	return func(cfg *config) {
		if fn == nil {
			return
		}
		if cfg.factories == nil {
			cfg.factories = make(map[string]func() any)
		}
		cfg.factories[name] = fn
	}
}

// WithExclude removes the named fields from the settable set, as if they were
// tagged `builder:"-"`.
func WithExclude(names ...string) Option {
	return func(cfg *config) {
		if cfg.excluded == nil {
			cfg.excluded = make(map[string]bool)
		}
		for _, name := range names {
			cfg.excluded[name] = true
		}
	}
}

// Describe derives the RecordType for the given target, which may be a struct
// value, a pointer to one (possibly nil, as in (*T)(nil)), or a
// reflect.Type. Anything else fails with InvalidTargetError.
//
// Option-free descriptions are cached per type and shared; callers must treat
// the returned RecordType as read-only.
func Describe(target any, opts ...Option) (*RecordType, error) {
	t, err := structTypeOf(target)
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	plain := len(cfg.defaults) == 0 && len(cfg.factories) == 0 && len(cfg.excluded) == 0

	if plain {
		if cached, ok := cache.Load(t); ok {
			return cached.(*RecordType), nil
		}
	}

	rt, err := describe(t, cfg)
	if err != nil {
		return nil, err
	}

	if plain {
		if cached, loaded := cache.LoadOrStore(t, rt); loaded {
			return cached.(*RecordType), nil
		}
	}
	return rt, nil
}

// MustDescribe is Describe panicking on error. Useful for package-level
// record registrations.
func MustDescribe(target any, opts ...Option) *RecordType {
	rt, err := Describe(target, opts...)
	if err != nil {
		panic(err)
	}
	return rt
}

func structTypeOf(target any) (reflect.Type, error) {
	var t reflect.Type
	switch v := target.(type) {
	case nil:
		return nil, invalidTarget(nil, "target is nil")
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(target)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, invalidTarget(t, "target must be a struct type")
	}
	return t, nil
}

func describe(t reflect.Type, cfg *config) (*RecordType, error) {
	rt := &RecordType{
		goType: t,
		index:  make(map[string]int, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)

		desc := FieldDescriptor{
			Name:  sf.Name,
			Type:  sf.Type,
			Index: i,
			Tag:   sf.Tag,
		}

		excluded := !sf.IsExported() ||
			sf.Tag.Get(builderTagKey) == "-" ||
			cfg.excluded[sf.Name]

		literal, hasLiteral := sf.Tag.Lookup(defaultTagKey)
		if hasLiteral && excluded && sf.IsExported() {
			return nil, invalidTarget(t, "field %s: default declared on excluded field", sf.Name)
		}

		switch {
		case excluded:
			desc.Class = ClassExcluded
		case hasLiteral:
			value, err := parseDefault(literal, sf.Type)
			if err != nil {
				return nil, invalidTarget(t, "field %s: bad default %q: %v", sf.Name, literal, err)
			}
			desc.Class = ClassOptional
			desc.defaultValue = value
			desc.hasDefault = true
		default:
			desc.Class = ClassRequired
		}

		rt.fields = append(rt.fields, desc)
		rt.index[sf.Name] = len(rt.fields) - 1
	}

	if err := applyRegistered(rt, cfg); err != nil {
		return nil, err
	}
	return rt, nil
}

// applyRegistered folds WithDefault / WithDefaultFunc registrations into the
// descriptor set, flipping the affected fields to optional.
func applyRegistered(rt *RecordType, cfg *config) error {
	for name, value := range cfg.defaults {
		i, ok := rt.index[name]
		if !ok {
			return invalidTarget(rt.goType, "default registered for unknown field %s", name)
		}
		desc := &rt.fields[i]
		if desc.Class == ClassExcluded {
			return invalidTarget(rt.goType, "default registered for excluded field %s", name)
		}
		if !assignable(value, desc.Type) {
			return invalidTarget(rt.goType, "default for field %s is not assignable to %s", name, desc.Type)
		}
		desc.Class = ClassOptional
		desc.defaultValue = value
		desc.defaultFunc = nil
		desc.hasDefault = true
	}
	for name, fn := range cfg.factories {
		i, ok := rt.index[name]
		if !ok {
			return invalidTarget(rt.goType, "default factory registered for unknown field %s", name)
		}
		desc := &rt.fields[i]
		if desc.Class == ClassExcluded {
			return invalidTarget(rt.goType, "default factory registered for excluded field %s", name)
		}
		desc.Class = ClassOptional
		desc.defaultValue = nil
		desc.defaultFunc = fn
		desc.hasDefault = true
	}
	return nil
}

// assignable reports whether a dynamic value can be stored in a field of the
// given type. nil is assignable to any nilable type.
func assignable(value any, t reflect.Type) bool {
	if value == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Chan, reflect.Func:
			return true
		}
		return false
	}
	return reflect.TypeOf(value).AssignableTo(t)
}

// parseDefault interprets a `default` tag literal against the field's kind.
// Only scalar kinds support tag literals; richer defaults use
// WithDefaultFunc.
func parseDefault(literal string, t reflect.Type) (any, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(literal)
	case reflect.Bool:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(literal, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(literal, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(literal, t.Bits())
		if err != nil {
			return nil, err
		}
		v.SetFloat(f)
	default:
		return nil, fmt.Errorf("tag defaults are not supported for %s fields", t.Kind())
	}
	return v.Interface(), nil
}

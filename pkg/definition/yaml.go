package definition

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses and validates a YAML definition document. Field order in
// the result matches author order; YAML sequences carry the declaration
// order the classification queries rely on.
func DecodeYAML(doc Document) (File, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(doc.Data()))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return File{}, fmt.Errorf("definition: decode %s: %w", doc.Name(), err)
	}
	if err := file.Validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

// fieldKeys are the mapping keys Field accepts. UnmarshalYAML checks them
// itself: node.Decode does not inherit the decoder's KnownFields setting.
var fieldKeys = map[string]bool{
	"name":     true,
	"go_name":  true,
	"type":     true,
	"doc":      true,
	"required": true,
	"default":  true,
}

// UnmarshalYAML decodes a field while remembering whether a default key was
// present at all, so an explicit empty-string default is distinguishable
// from no default.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	type plain Field
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = Field(p)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if !fieldKeys[key.Value] {
				return fmt.Errorf("line %d: field %s not found in type definition.Field", key.Line, key.Value)
			}
			if key.Value == "default" {
				f.hasDefault = true
			}
		}
	}
	return nil
}

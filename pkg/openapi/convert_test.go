package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-structbuilder/pkg/definition"
	"github.com/goliatone/go-structbuilder/pkg/openapi"
	"github.com/goliatone/go-structbuilder/pkg/testsupport"
)

const petstore = `{
  "openapi": "3.0.3",
  "info": {"title": "petstore", "version": "1.0.0"},
  "paths": {},
  "components": {
    "schemas": {
      "Id": {"type": "integer"},
      "Pet": {
        "type": "object",
        "description": "is an adoptable pet.",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "age": {"type": "integer", "default": 1},
          "weight": {"type": "number", "format": "float", "default": 2.5},
          "adopted": {"type": "boolean"},
          "tags": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

type fieldSummary struct {
	Name       string
	Type       string
	Required   bool
	Default    string
	HasDefault bool
}

func summarize(fields []definition.Field) []fieldSummary {
	out := make([]fieldSummary, len(fields))
	for i, f := range fields {
		out[i] = fieldSummary{
			Name:       f.Name,
			Type:       f.Type,
			Required:   f.Required,
			Default:    f.Default,
			HasDefault: f.HasDefault(),
		}
	}
	return out
}

func loadPetstore(t *testing.T, opts ...openapi.Option) []definition.Record {
	t.Helper()
	doc := definition.MustNewDocument("petstore.json", []byte(petstore))
	records, err := openapi.Records(context.Background(), doc, opts...)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return records
}

func TestRecords_ConvertsObjectSchemas(t *testing.T) {
	records := loadPetstore(t)

	if len(records) != 1 {
		t.Fatalf("expected the non-object Id schema to be skipped, got %d records", len(records))
	}
	pet := records[0]
	if pet.Name != "Pet" {
		t.Fatalf("expected record Pet, got %q", pet.Name)
	}
	if pet.Doc != "is an adoptable pet." {
		t.Fatalf("unexpected doc: %q", pet.Doc)
	}

	// Properties are emitted alphabetically: JSON objects carry no order.
	want := []fieldSummary{
		{Name: "adopted", Type: "bool", Default: "false", HasDefault: true},
		{Name: "age", Type: "int64", Default: "1", HasDefault: true},
		{Name: "name", Type: "string", Required: true},
		{Name: "tags", Type: "[]string", Required: true},
		{Name: "weight", Type: "float32", Default: "2.5", HasDefault: true},
	}
	if diff := testsupport.CompareGolden(want, summarize(pet.Fields)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_ExplicitSelection(t *testing.T) {
	records := loadPetstore(t, openapi.WithSchemas("Pet"))
	if len(records) != 1 || records[0].Name != "Pet" {
		t.Fatalf("unexpected selection result: %+v", records)
	}
}

func TestRecords_ExplicitNonObjectFails(t *testing.T) {
	doc := definition.MustNewDocument("petstore.json", []byte(petstore))
	if _, err := openapi.Records(context.Background(), doc, openapi.WithSchemas("Id")); err == nil {
		t.Fatalf("expected error selecting a non-object schema")
	}
}

func TestRecords_MissingSchemaFails(t *testing.T) {
	doc := definition.MustNewDocument("petstore.json", []byte(petstore))
	if _, err := openapi.Records(context.Background(), doc, openapi.WithSchemas("Ghost")); err == nil {
		t.Fatalf("expected error selecting an unknown schema")
	}
}

func TestRecords_RejectsTimeDefault(t *testing.T) {
	const doc = `{
	  "openapi": "3.0.3",
	  "info": {"title": "t", "version": "1"},
	  "paths": {},
	  "components": {
	    "schemas": {
	      "Event": {
	        "type": "object",
	        "properties": {
	          "at": {"type": "string", "format": "date-time", "default": "2020-01-01T00:00:00Z"}
	        }
	      }
	    }
	  }
	}`
	parsed := definition.MustNewDocument("events.json", []byte(doc))
	_, err := openapi.Records(context.Background(), parsed)
	if err == nil || !strings.Contains(err.Error(), "cannot carry a default") {
		t.Fatalf("expected default rejection for time.Time property, got %v", err)
	}
}

func TestRecords_NoComponents(t *testing.T) {
	const empty = `{"openapi": "3.0.3", "info": {"title": "t", "version": "1"}, "paths": {}}`
	doc := definition.MustNewDocument("empty.json", []byte(empty))
	if _, err := openapi.Records(context.Background(), doc); err == nil {
		t.Fatalf("expected error for document without component schemas")
	}
}

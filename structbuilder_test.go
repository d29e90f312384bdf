package structbuilder_test

import (
	"errors"
	"strings"
	"testing"

	structbuilder "github.com/goliatone/go-structbuilder"
	"github.com/goliatone/go-structbuilder/pkg/definition"
)

type point struct {
	X float64
	Y float64
	W float64 `default:"1.0"`
}

func TestFacade_BuildFlow(t *testing.T) {
	b, err := structbuilder.New[point]()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := b.Set("X", 5.8); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := b.Set("Y", 8.1); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got != (point{X: 5.8, Y: 8.1, W: 1.0}) {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFacade_ErrorAliases(t *testing.T) {
	b := structbuilder.MustNew[point]()

	err := b.Set("Z", 1.0)
	var undefined *structbuilder.UndefinedFieldError
	if !errors.As(err, &undefined) {
		t.Fatalf("expected UndefinedFieldError alias to match, got %v", err)
	}
}

func TestFacade_Generate(t *testing.T) {
	file := definition.File{
		Package: "shapes",
		Records: []definition.Record{
			{
				Name: "Square",
				Fields: []definition.Field{
					{Name: "side", Type: "float64", Required: true},
				},
			},
		},
	}
	code, err := structbuilder.Generate(file)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(code), "type SquareBuilder struct") {
		t.Fatalf("generated code missing builder type:\n%s", code)
	}
}

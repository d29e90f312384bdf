package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-structbuilder/pkg/codegen"
	"github.com/goliatone/go-structbuilder/pkg/definition"
	"github.com/goliatone/go-structbuilder/pkg/definition/loader"
	"github.com/goliatone/go-structbuilder/pkg/openapi"
)

func main() {
	var (
		source      = flag.String("source", "", "record definition YAML or OpenAPI document (path or URL)")
		format      = flag.String("format", "auto", "source format: definition, openapi, or auto")
		pkgName     = flag.String("package", "", "package name for generated code (overrides the definition file)")
		records     = flag.String("records", "", "comma-separated record names to generate (default: all)")
		output      = flag.String("output", "", "output file (stdout if empty)")
		interactive = flag.Bool("interactive", false, "pick records interactively when -records is empty")
	)
	flag.Parse()

	if *source == "" {
		log.Fatalf("missing required -source flag")
	}

	ctx := context.Background()

	docs := loader.New(loader.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	doc, err := docs.Load(ctx, *source)
	if err != nil {
		log.Fatalf("load source: %v", err)
	}

	file, err := decode(ctx, doc, *format, *pkgName)
	if err != nil {
		log.Fatalf("decode source: %v", err)
	}

	selected, err := selectRecords(file.Records, splitList(*records), *interactive)
	if err != nil {
		log.Fatalf("select records: %v", err)
	}
	file.Records = selected

	gen, err := codegen.New()
	if err != nil {
		log.Fatalf("create generator: %v", err)
	}
	code, err := gen.File(file)
	if err != nil {
		log.Fatalf("generate builders: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, code, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Builders written to %s\n", *output)
	} else {
		fmt.Println(string(code))
	}
}

// decode interprets the document per -format, sniffing by extension when set
// to auto.
func decode(ctx context.Context, doc definition.Document, format, pkgName string) (definition.File, error) {
	kind := format
	if kind == "auto" {
		switch strings.ToLower(filepath.Ext(doc.Name())) {
		case ".json":
			kind = "openapi"
		default:
			kind = "definition"
		}
	}

	switch kind {
	case "definition":
		file, err := definition.DecodeYAML(doc)
		if err != nil {
			return definition.File{}, err
		}
		if pkgName != "" {
			file.Package = pkgName
		}
		return file, nil
	case "openapi":
		recs, err := openapi.Records(ctx, doc)
		if err != nil {
			return definition.File{}, err
		}
		if pkgName == "" {
			return definition.File{}, fmt.Errorf("-package is required for OpenAPI sources")
		}
		return definition.File{Package: pkgName, Records: recs}, nil
	}
	return definition.File{}, fmt.Errorf("unknown format %q", format)
}

func selectRecords(all []definition.Record, names []string, interactive bool) ([]definition.Record, error) {
	if len(names) == 0 && interactive {
		options := make([]string, len(all))
		for i, rec := range all {
			options[i] = rec.Name
		}
		prompt := &survey.MultiSelect{
			Message: "Records to generate:",
			Options: options,
			Default: options,
		}
		if err := survey.AskOne(prompt, &names); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]definition.Record, len(all))
	for _, rec := range all {
		byName[rec.Name] = rec
	}
	selected := make([]definition.Record, 0, len(names))
	for _, name := range names {
		rec, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("record %q not found in source", name)
		}
		selected = append(selected, rec)
	}
	return selected, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

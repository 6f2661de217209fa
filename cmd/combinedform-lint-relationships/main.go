package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	combinedform "github.com/goliatone/go-combinedform"
	"github.com/goliatone/go-combinedform/pkg/depgraph"
	"github.com/goliatone/go-combinedform/pkg/entity"
	pkgopenapi "github.com/goliatone/go-combinedform/pkg/openapi"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint OpenAPI documents for broken x-relationship declarations.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"schema.yaml"}
	}

	ctx := context.Background()
	parser := combinedform.NewParser(pkgopenapi.WithAllowEmptyComponents())

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, parser, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(ctx context.Context, parser pkgopenapi.Parser, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
	if err != nil {
		return nil, fmt.Errorf("construct document: %w", err)
	}

	descriptors, err := parser.Entities(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}

	declared := entity.SetOf(descriptors)

	var result []violation
	for _, descriptor := range descriptors {
		for _, ref := range descriptor.References {
			if declared.Has(ref.Target) {
				continue
			}
			result = append(result, violation{
				file:     path,
				location: fmt.Sprintf("%s.%s", descriptor.Name, ref.Field),
				message:  fmt.Sprintf("references undeclared schema %q", ref.Target),
			})
		}
	}

	graph := depgraph.New()
	for _, descriptor := range descriptors {
		graph.AddEntity(descriptor)
	}
	if _, err := graph.SaveOrder(); err != nil {
		if cycle := depgraph.AsCycleError(err); cycle != nil {
			names := make([]string, 0, len(cycle.Types))
			for _, typ := range cycle.Types {
				names = append(names, string(typ))
			}
			sort.Strings(names)
			result = append(result, violation{
				file:     path,
				location: "components.schemas",
				message:  fmt.Sprintf("relationship cycle involving %v", names),
			})
		} else {
			return nil, err
		}
	}

	return result, nil
}

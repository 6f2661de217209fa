package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	combinedform "github.com/goliatone/go-combinedform"
	"github.com/goliatone/go-combinedform/pkg/depgraph"
	pkgopenapi "github.com/goliatone/go-combinedform/pkg/openapi"
)

func main() {
	source := flag.String("source", "schema.yaml", "OpenAPI document path or URL")
	levels := flag.Bool("levels", false, "group the order into batches that could save together")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	src := parseSource(*source)
	if src == nil {
		log.Fatalf("invalid source: %q", *source)
	}

	loader := combinedform.NewLoader(pkgopenapi.WithHTTPFallback(0))
	doc, err := loader.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	descriptors, err := combinedform.NewParser().Entities(ctx, doc)
	if err != nil {
		log.Fatalf("Failed to extract entities: %v", err)
	}

	graph := depgraph.New()
	for _, descriptor := range descriptors {
		graph.AddEntity(descriptor)
	}

	var lines []string
	if *levels {
		batches, err := graph.SaveLevels()
		if err != nil {
			log.Fatalf("Failed to resolve save order: %v", err)
		}
		for i, batch := range batches {
			names := make([]string, 0, len(batch))
			for _, typ := range batch {
				names = append(names, string(typ))
			}
			lines = append(lines, fmt.Sprintf("%d: %s", i, strings.Join(names, ", ")))
		}
	} else {
		order, err := graph.SaveOrder()
		if err != nil {
			log.Fatalf("Failed to resolve save order: %v", err)
		}
		for _, typ := range order {
			lines = append(lines, string(typ))
		}
	}

	report := strings.Join(lines, "\n") + "\n"
	if *output != "" {
		if err := os.WriteFile(*output, []byte(report), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Save order written to %s\n", *output)
	} else {
		fmt.Print(report)
	}
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}

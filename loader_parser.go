package combinedform

import (
	internalLoader "github.com/goliatone/go-combinedform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-combinedform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-combinedform/pkg/openapi"
)

// NewLoader constructs an OpenAPI document loader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs an entity-descriptor parser backed by the internal
// implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

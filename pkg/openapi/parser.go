package openapi

import (
	"context"

	"github.com/goliatone/go-combinedform/pkg/entity"
)

// Parser extracts entity descriptors from an OpenAPI document's component
// schemas. Properties annotated with the x-relationship extension become
// references on the owning entity type.
type Parser interface {
	Entities(ctx context.Context, doc Document) ([]entity.Descriptor, error)
}

// ParserOptions configures parsing behaviour.
type ParserOptions struct {
	// ResolveReferences validates the document and resolves $ref pointers
	// before extraction.
	ResolveReferences bool

	// AllowEmptyComponents suppresses the error normally raised when a
	// document declares no component schemas.
	AllowEmptyComponents bool
}

// ParserOption mutates ParserOptions prior to construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution enables document validation and $ref resolution.
func WithReferenceResolution() ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = true
	}
}

// WithAllowEmptyComponents tolerates documents without component schemas.
func WithAllowEmptyComponents() ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmptyComponents = true
	}
}

// NewParserOptions applies a set of ParserOption values and returns the
// resulting configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

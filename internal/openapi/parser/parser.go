package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-combinedform/pkg/entity"
	pkgopenapi "github.com/goliatone/go-combinedform/pkg/openapi"
)

const relationshipExtensionKey = "x-relationship"

// Parser implements pkgopenapi.Parser using kin-openapi. Component schemas
// become entity descriptors; properties carrying an x-relationship extension
// become references to the target entity type.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Entities converts a Document into entity descriptors sorted by name.
func (p *Parser) Entities(ctx context.Context, doc pkgopenapi.Document) ([]entity.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		if p.options.AllowEmptyComponents {
			return nil, nil
		}
		return nil, errors.New("openapi parser: document does not declare component schemas")
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]entity.Descriptor, 0, len(names))
	for _, name := range names {
		descriptor, err := convertSchema(name, spec.Components.Schemas[name])
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, descriptor)
	}

	if len(descriptors) == 0 && !p.options.AllowEmptyComponents {
		return nil, errors.New("openapi parser: no entity descriptors extracted")
	}

	return descriptors, nil
}

func convertSchema(name string, ref *openapi3.SchemaRef) (entity.Descriptor, error) {
	descriptor := entity.Descriptor{Name: entity.Type(name)}
	if ref == nil || ref.Value == nil {
		return descriptor, nil
	}
	src := ref.Value

	required := make(map[string]struct{}, len(src.Required))
	for _, field := range src.Required {
		required[field] = struct{}{}
	}

	propNames := make([]string, 0, len(src.Properties))
	for propName := range src.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	for _, propName := range propNames {
		property := src.Properties[propName]

		_, isRequired := required[propName]
		target, hasRelationship, err := relationshipTarget(property)
		if err != nil {
			return entity.Descriptor{}, fmt.Errorf("openapi parser: schema %q property %q: %w", name, propName, err)
		}

		if hasRelationship {
			descriptor.Fields = append(descriptor.Fields, entity.Field{
				Name:     propName,
				Kind:     entity.FieldReference,
				Required: isRequired,
			})
			descriptor.References = append(descriptor.References, entity.Reference{
				Field:  propName,
				Target: target,
			})
			continue
		}

		descriptor.Fields = append(descriptor.Fields, entity.Field{
			Name:     propName,
			Kind:     fieldKind(property),
			Required: isRequired,
		})
	}

	return descriptor, nil
}

// relationshipTarget extracts the target entity type from a property's
// x-relationship extension. Only owning relationship kinds (belongsTo,
// hasOne) produce a reference; hasMany marks the inverse side and carries no
// save-order constraint for the declaring entity.
func relationshipTarget(ref *openapi3.SchemaRef) (entity.Type, bool, error) {
	if ref == nil || ref.Value == nil {
		return "", false, nil
	}
	raw, ok := ref.Value.Extensions[relationshipExtensionKey]
	if !ok {
		return "", false, nil
	}
	mapped, ok := raw.(map[string]any)
	if !ok {
		return "", false, fmt.Errorf("x-relationship must be a mapping, got %T", raw)
	}

	kind := "belongsto"
	if rawKind, ok := mapped["type"].(string); ok && rawKind != "" {
		kind = strings.ToLower(strings.TrimSpace(rawKind))
	}
	switch kind {
	case "belongsto", "hasone":
	case "hasmany":
		return "", false, nil
	default:
		return "", false, fmt.Errorf("unknown relationship type %q", kind)
	}

	target, _ := mapped["target"].(string)
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false, errors.New("x-relationship is missing a target")
	}
	return entity.Type(target), true, nil
}

func fieldKind(ref *openapi3.SchemaRef) entity.FieldKind {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return entity.FieldString
	}
	values := ref.Value.Type.Slice()
	if len(values) == 0 {
		return entity.FieldString
	}
	switch values[0] {
	case "integer":
		return entity.FieldInteger
	case "number":
		return entity.FieldNumber
	case "boolean":
		return entity.FieldBoolean
	default:
		return entity.FieldString
	}
}

// Package openapi defines the contracts for sourcing entity descriptors from
// OpenAPI documents: component schemas annotated with x-relationship
// extensions become entity types with references. Implementations live under
// internal/openapi; construction helpers sit in the top-level combinedform
// package.
package openapi

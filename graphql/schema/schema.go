/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package schema loads the campus GraphQL schema and turns requests into
// validated operations.
package schema

import (
	_ "embed"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/dgraph-io/gqlparser/v2/validator"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

//go:embed schema.graphql
var campusSDL string

// Typename is the name of the GraphQL meta field that resolves to the name of
// the enclosing object type.
const Typename = "__typename"

// Schema is a validated GraphQL schema. Validated operations are cached when
// the schema was built with an operation cache.
type Schema struct {
	schema *ast.Schema
	sdl    string
	cache  *ristretto.Cache[uint64, *Operation]
}

// SDL returns the schema definition the campus API serves.
func SDL() string {
	return campusSDL
}

// Campus returns the campus schema. maxCachedOps bounds the operation cache, 0
// disables it.
func Campus(maxCachedOps int64) (*Schema, error) {
	s, err := FromString(campusSDL)
	if err != nil {
		return nil, err
	}
	if err := s.withOperationCache(maxCachedOps); err != nil {
		return nil, err
	}
	return s, nil
}

// FromString builds a Schema from input, or returns any parsing or validation
// errors.
func FromString(input string) (*Schema, error) {
	// validator.Prelude carries the builtin scalars, directives and the
	// introspection types.
	doc, gqlErr := parser.ParseSchemas(validator.Prelude, &ast.Source{Input: input})
	if gqlErr != nil {
		return nil, errors.Wrap(gqlErr, "while parsing GraphQL schema")
	}

	gqlSchema, gqlErr := validator.ValidateSchemaDocument(doc)
	if gqlErr != nil {
		return nil, errors.Wrap(gqlErr, "while validating GraphQL schema")
	}

	return &Schema{schema: gqlSchema, sdl: input}, nil
}

func (s *Schema) withOperationCache(maxCachedOps int64) error {
	if maxCachedOps <= 0 {
		return nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, *Operation]{
		NumCounters: maxCachedOps * 10,
		MaxCost:     maxCachedOps,
		BufferItems: 64,
		Metrics:     true,
		Cost: func(*Operation) int64 {
			return 1
		},
		IgnoreInternalCost: true,
	})
	if err != nil {
		return errors.Wrapf(err, "while creating operation cache")
	}
	s.cache = cache
	return nil
}

// AST returns the parsed schema. Callers must not modify it.
func (s *Schema) AST() *ast.Schema {
	return s.schema
}

// String returns the schema definition the Schema was built from.
func (s *Schema) String() string {
	return s.sdl
}

// Close releases the operation cache.
func (s *Schema) Close() {
	if s != nil && s.cache != nil {
		s.cache.Close()
	}
}

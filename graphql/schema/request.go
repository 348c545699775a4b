/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"context"
	"encoding/json"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/dgraph-io/gqlparser/v2/validator"
	_ "github.com/dgraph-io/gqlparser/v2/validator/rules" // make gql validator init() all rules
	"github.com/dgryski/go-farm"
	"github.com/pkg/errors"
	"go.opencensus.io/stats"

	"github.com/hypermodeinc/campus/x"
)

// A Request represents a GraphQL request. It makes no guarantees that the
// request is valid.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Operation is a validated GraphQL operation together with its coerced
// variables. An Operation may be shared between requests and must not be
// modified.
type Operation struct {
	op    *ast.OperationDefinition
	doc   *ast.QueryDocument
	vars  map[string]interface{}
	query string
}

// Name returns the operation name, empty for an anonymous operation.
func (o *Operation) Name() string {
	return o.op.Name
}

// Definition returns the operation's parsed and validated definition.
func (o *Operation) Definition() *ast.OperationDefinition {
	return o.op
}

// Doc returns the document the operation was found in.
func (o *Operation) Doc() *ast.QueryDocument {
	return o.doc
}

// Vars returns the coerced variable values.
func (o *Operation) Vars() map[string]interface{} {
	return o.vars
}

// Query returns the request text the operation was parsed from.
func (o *Operation) Query() string {
	return o.query
}

// Operation finds the operation in req, if it is a valid request for the
// schema. If the request is GraphQL valid, it must contain a single valid
// Operation. If either the request is malformed or doesn't contain a valid
// operation, all GraphQL errors encountered are returned.
func (s *Schema) Operation(req *Request) (*Operation, error) {
	if req == nil || req.Query == "" {
		return nil, errors.New("no query string supplied in request")
	}

	key, cacheable := s.cacheKey(req)
	if cacheable {
		if op, ok := s.cache.Get(key); ok {
			stats.Record(context.Background(), x.OperationCacheHits.M(1))
			return op, nil
		}
		stats.Record(context.Background(), x.OperationCacheMisses.M(1))
	}

	op, err := s.operation(req)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.cache.Set(key, op, 1)
	}
	return op, nil
}

func (s *Schema) operation(req *Request) (*Operation, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: req.Query})
	if gqlErr != nil {
		return nil, gqlErr
	}

	for _, op := range doc.Operations {
		if op.Operation != ast.Query {
			gqlErr := x.GqlErrorf("campus is read only, %s operations are not supported.",
				op.Operation)
			if op.Position != nil {
				gqlErr = gqlErr.WithLocations(x.Location{
					Line:   op.Position.Line,
					Column: op.Position.Column,
				})
			}
			return nil, gqlErr
		}
	}

	listErr := validator.Validate(s.schema, doc, req.Variables)
	if len(listErr) != 0 {
		return nil, listErr
	}

	if len(doc.Operations) > 1 && req.OperationName == "" {
		return nil, errors.Errorf("Operation name must by supplied when query has more " +
			"than 1 operation.")
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return nil, errors.Errorf("Supplied operation name %s isn't present in the request.",
			req.OperationName)
	}

	vars, gqlErr := validator.VariableValues(s.schema, op, req.Variables)
	if gqlErr != nil {
		return nil, gqlErr
	}

	return &Operation{
		op:    op,
		doc:   doc,
		vars:  vars,
		query: req.Query,
	}, nil
}

// cacheKey fingerprints everything that the validated operation depends on.
func (s *Schema) cacheKey(req *Request) (uint64, bool) {
	if s.cache == nil {
		return 0, false
	}
	vars, err := json.Marshal(req.Variables)
	if err != nil {
		return 0, false
	}
	buf := make([]byte, 0, len(req.Query)+len(req.OperationName)+len(vars)+2)
	buf = append(buf, req.Query...)
	buf = append(buf, 0)
	buf = append(buf, req.OperationName...)
	buf = append(buf, 0)
	buf = append(buf, vars...)
	return farm.Fingerprint64(buf), true
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"errors"
	"strconv"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/validator"
)

const (
	baseRules = 0
)

func init() {
	validator.AddRuleWithOrder("Check range for Int type", baseRules, intRangeCheck)
}

// intRangeCheck rejects Int literals that are not 32-bit signed integers.
// gqlparser only checks that an Int literal parses as an int64.
func intRangeCheck(observers *validator.Events, addError validator.AddErrFunc) {
	observers.OnValue(func(walker *validator.Walker, value *ast.Value) {
		if value.Definition == nil || value.ExpectedType == nil {
			return
		}

		if value.Kind != ast.IntValue || value.Definition.Name != "Int" {
			return
		}

		_, err := strconv.ParseInt(value.Raw, 10, 32)
		if err == nil {
			return
		}
		if errors.Is(err, strconv.ErrRange) {
			addError(validator.Message("Out of range value '%s', for type `%s`",
				value.Raw, value.Definition.Name), validator.At(value.Position))
			return
		}
		addError(validator.Message("%s", err), validator.At(value.Position))
	})
}

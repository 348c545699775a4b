/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package api holds helpers shared by the layers serving GraphQL requests.
package api

import (
	"runtime/debug"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrPanic is the error applied by PanicHandler after a recovered panic.
var ErrPanic = errors.New("Internal Server Error - a panic was trapped.  " +
	"This indicates a bug in the campus server.  A stack trace was logged.")

// PanicHandler catches panics to make sure that we recover from panics during
// GraphQL request execution and return an appropriate error.
//
// If PanicHandler recovers from a panic, it logs a stack trace along with the
// query that caused it and applies fn to ErrPanic.
func PanicHandler(fn func(error), query string) {
	if err := recover(); err != nil {
		glog.Errorf("panic: %s.\n query: %s\n trace: %s", err, query, string(debug.Stack()))
		fn(ErrPanic)
	}
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanicHandler(t *testing.T) {
	var got error
	func() {
		defer PanicHandler(func(err error) { got = err }, "{ students { edges { cursor } } }")
		panic("boom")
	}()
	require.Equal(t, ErrPanic, got)
}

func TestPanicHandler_NoPanic(t *testing.T) {
	called := false
	func() {
		defer PanicHandler(func(error) { called = true }, "{ levels }")
	}()
	require.False(t, called)
}

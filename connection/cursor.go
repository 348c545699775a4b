/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package connection

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const cursorPrefix = "arrayconnection:"

var (
	// ErrInvalidCursor is returned for a cursor that does not name a position
	// in the sequence being paginated.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrNegativeCount is returned when first or last is negative.
	ErrNegativeCount = errors.New("first and last must not be negative")
)

// OffsetToCursor returns the opaque cursor for a zero based offset.
func OffsetToCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// CursorToOffset decodes a cursor produced by OffsetToCursor. Only the exact
// encoding of an offset is accepted, so "arrayconnection:01" is invalid.
func CursorToOffset(cursor string) (int, error) {
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidCursor, "%q is not base64", cursor)
	}
	s := string(b)
	if !strings.HasPrefix(s, cursorPrefix) {
		return 0, errors.Wrapf(ErrInvalidCursor, "%q", cursor)
	}
	offset, err := strconv.Atoi(strings.TrimPrefix(s, cursorPrefix))
	if err != nil || offset < 0 || OffsetToCursor(offset) != cursor {
		return 0, errors.Wrapf(ErrInvalidCursor, "%q", cursor)
	}
	return offset, nil
}

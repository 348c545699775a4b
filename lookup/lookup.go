/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package lookup implements attribute lookups and the list filter over record
// collections. Every function is pure and preserves collection order.
package lookup

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Record exposes a record's attributes by name.
type Record interface {
	Attr(name string) (interface{}, bool)
}

// FindOne returns the first record whose attribute loosely equals value.
func FindOne[T Record](c []T, attr string, value interface{}) (T, bool) {
	for _, r := range c {
		if matches(r, attr, value) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every record whose attribute loosely equals value. The
// result is never nil.
func FindAll[T Record](c []T, attr string, value interface{}) []T {
	return Where(c, func(r T) bool { return matches(r, attr, value) })
}

// Where returns the records satisfying pred. The result is never nil.
func Where[T any](c []T, pred func(T) bool) []T {
	out := make([]T, 0, len(c))
	for _, r := range c {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCollection applies a list filter to c.
//
// An empty or blank filter returns c itself. A numeric filter selects the
// records whose attribute equals that number. Any other filter selects the
// records whose attribute contains the filter's characters in order, ignoring
// case. The attribute is filterBy, or defaultAttr when filterBy is empty.
func FilterCollection[T Record](c []T, filter, filterBy, defaultAttr string) []T {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return c
	}
	attr := filterBy
	if attr == "" {
		attr = defaultAttr
	}

	if num, ok := parseNumber(filter); ok {
		return FindAll(c, attr, num)
	}

	re := subsequence(filter)
	return Where(c, func(r T) bool {
		v, ok := r.Attr(attr)
		if !ok {
			return false
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	})
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// subsequence compiles a case insensitive pattern matching any string that
// contains the runes of filter in order.
func subsequence(filter string) *regexp.Regexp {
	parts := make([]string, 0, len(filter))
	for _, r := range filter {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return regexp.MustCompile("(?is)" + strings.Join(parts, ".*"))
}

func matches(r Record, attr string, value interface{}) bool {
	v, ok := r.Attr(attr)
	if !ok {
		return false
	}
	return LooselyEqual(v, value)
}

// LooselyEqual compares two scalars. Values of the same string form are equal,
// otherwise they are equal when both convert to the same number, so "101"
// equals 101.
func LooselyEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	as, aerr := cast.ToStringE(a)
	bs, berr := cast.ToStringE(b)
	if aerr == nil && berr == nil && as == bs {
		return true
	}
	af, ok := toNumber(a)
	if !ok {
		return false
	}
	bf, ok := toNumber(b)
	if !ok {
		return false
	}
	return af == bf
}

func toNumber(v interface{}) (float64, bool) {
	if s, ok := v.(string); ok {
		return parseNumber(strings.TrimSpace(s))
	}
	if _, ok := v.(bool); ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

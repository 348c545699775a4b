/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package campus

import (
	"context"

	"github.com/hypermodeinc/campus/graphql/resolve"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/store/seed"
)

// Load reads the seed named by seedURI and returns a resolver serving it.
// maxCachedOps bounds the operation cache, 0 disables it. Callers close the
// resolver's schema when done.
func Load(ctx context.Context, seedURI string, maxCachedOps int64) (
	*resolve.RequestResolver, error) {

	snap, err := seed.Open(ctx, seedURI)
	if err != nil {
		return nil, err
	}
	s, err := schema.Campus(maxCachedOps)
	if err != nil {
		return nil, err
	}
	return New(s, snap), nil
}

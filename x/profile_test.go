/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestStartProfile(t *testing.T) {
	conf := viper.New()
	s, err := StartProfile(conf)
	require.NoError(t, err)
	require.Equal(t, noOpStopper{}, s)
	s.Stop()

	conf.Set("profile_mode", "cpu")
	conf.Set("profile_dir", t.TempDir())
	s, err = StartProfile(conf)
	require.NoError(t, err)
	s.Stop()

	conf.Set("profile_mode", "gpu")
	_, err = StartProfile(conf)
	require.EqualError(t, err, `invalid profile mode: "gpu", want one of [cpu, mem, mutex, block]`)
}

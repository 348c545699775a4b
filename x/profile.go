/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/viper"
)

// Stopper ends a profile started by StartProfile.
type Stopper interface {
	Stop()
}

// StartProfile starts the profile named by the profile_mode setting of conf,
// one of cpu, mem, mutex or block. An empty mode profiles nothing.
func StartProfile(conf *viper.Viper) (Stopper, error) {
	profileMode := conf.GetString("profile_mode")
	path := profile.ProfilePath(conf.GetString("profile_dir"))
	switch profileMode {
	case "cpu":
		return profile.Start(profile.CPUProfile, path, profile.Quiet), nil
	case "mem":
		return profile.Start(profile.MemProfile, path, profile.Quiet), nil
	case "mutex":
		return profile.Start(profile.MutexProfile, path, profile.Quiet), nil
	case "block":
		runtime.SetBlockProfileRate(conf.GetInt("block_rate"))
		return profile.Start(profile.BlockProfile, path, profile.Quiet), nil
	case "":
		return noOpStopper{}, nil
	}
	return nil, errors.Errorf("invalid profile mode: %q, want one of [cpu, mem, mutex, block]",
		profileMode)
}

type noOpStopper struct{}

func (noOpStopper) Stop() {}

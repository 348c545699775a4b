/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
	"runtime"
)

var (
	// These variables are set using -ldflags
	campusVersion  string
	gitBranch      string
	lastCommitSHA  string
	lastCommitTime string
)

// BuildDetails returns a string containing details about the campus binary.
func BuildDetails() string {
	return fmt.Sprintf(`
Campus version   : %v
Commit SHA-1     : %v
Commit timestamp : %v
Branch           : %v
Go version       : %v

Licensed under the Apache Public License 2.0.

`,
		Version(), lastCommitSHA, lastCommitTime, gitBranch, runtime.Version())
}

// Version returns a string containing the campus version.
func Version() string {
	if campusVersion == "" {
		return "dev"
	}
	return campusVersion
}

// PrintVersion prints version and other helpful information.
func PrintVersion() {
	fmt.Println(BuildDetails())
}

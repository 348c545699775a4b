/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

// Levels is indexed by Student.Level - 1.
var Levels = []string{"FRESHMAN", "SOPHMORE", "JUNIOR", "SENIOR"}

// Grades is indexed by Grade.Grade, from "F" at 0 to "A" at 4.
var Grades = []string{"F", "D", "C", "B", "A"}

// LevelLabel returns the label for a 1-indexed level code.
func LevelLabel(level int) (string, bool) {
	if level < 1 || level > len(Levels) {
		return "", false
	}
	return Levels[level-1], true
}

// GradeLabel returns the letter for a 0-indexed grade code.
func GradeLabel(grade int) (string, bool) {
	if grade < 0 || grade >= len(Grades) {
		return "", false
	}
	return Grades[grade], true
}

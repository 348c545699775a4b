/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

// Builtin returns a fresh copy of the dataset campus ships with.
func Builtin() *Snapshot {
	s, err := New(
		[]*Instructor{
			{Person{ID: 13, Name: "Cade Hercules Nichols", Age: 2, Gender: "male"}},
			{Person{ID: 42, Name: "Samer The Hammer Buna", Age: 7, Gender: "male"}},
		},
		[]*Student{
			{Person: Person{ID: 7, Name: "Nicholas Babelthuap Neumann-Chun", Age: 126, Gender: "male"}, Level: 1},
			{Person: Person{ID: 9, Name: "Sarah Papaya Lyon", Age: 125, Gender: "female"}, Level: 3},
		},
		[]*Course{
			{ID: 101, Name: "Skydiving", Instructor: 13, Students: []int{7}},
			{ID: 102, Name: "ReactCamp", Instructor: 42, Students: []int{7, 9}},
		},
		[]*Grade{
			{Student: 7, Course: 101, Grade: 0},
			{Student: 7, Course: 102, Grade: 2},
			{Student: 9, Course: 102, Grade: 4},
		},
	)
	if err != nil {
		panic(err)
	}
	return s
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package store holds the read-only academic dataset served by campus.
package store

import (
	"math"

	"github.com/pkg/errors"
)

// NoGPA is returned by GPA for a student without grades.
var NoGPA = math.NaN()

// Snapshot is the complete dataset. It is built once by New and never mutated
// afterwards, so it is safe for concurrent readers.
type Snapshot struct {
	Instructors []*Instructor
	Students    []*Student
	Courses     []*Course
	Grades      []*Grade
}

// New assigns composite ids to grades that were seeded without one and
// validates the result.
func New(instructors []*Instructor, students []*Student, courses []*Course,
	grades []*Grade) (*Snapshot, error) {

	for _, g := range grades {
		if g != nil && g.ID == "" {
			g.ID = GradeID(g.Student, g.Course)
		}
	}
	s := &Snapshot{
		Instructors: instructors,
		Students:    students,
		Courses:     courses,
		Grades:      grades,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks id uniqueness, label ranges and that every reference between
// collections resolves.
func (s *Snapshot) Validate() error {
	instructors := make(map[int]struct{}, len(s.Instructors))
	for _, i := range s.Instructors {
		if i == nil {
			return errors.New("nil instructor in seed")
		}
		if _, ok := instructors[i.ID]; ok {
			return errors.Errorf("duplicate instructor id %d", i.ID)
		}
		instructors[i.ID] = struct{}{}
	}

	students := make(map[int]struct{}, len(s.Students))
	for _, st := range s.Students {
		if st == nil {
			return errors.New("nil student in seed")
		}
		if _, ok := students[st.ID]; ok {
			return errors.Errorf("duplicate student id %d", st.ID)
		}
		if _, ok := LevelLabel(st.Level); !ok {
			return errors.Errorf("student %d has level %d, want 1..%d",
				st.ID, st.Level, len(Levels))
		}
		students[st.ID] = struct{}{}
	}

	courses := make(map[int]struct{}, len(s.Courses))
	for _, c := range s.Courses {
		if c == nil {
			return errors.New("nil course in seed")
		}
		if _, ok := courses[c.ID]; ok {
			return errors.Errorf("duplicate course id %d", c.ID)
		}
		if _, ok := instructors[c.Instructor]; !ok {
			return errors.Errorf("course %d references unknown instructor %d",
				c.ID, c.Instructor)
		}
		roster := make(map[int]struct{}, len(c.Students))
		for _, id := range c.Students {
			if _, ok := students[id]; !ok {
				return errors.Errorf("course %d references unknown student %d", c.ID, id)
			}
			if _, ok := roster[id]; ok {
				return errors.Errorf("course %d lists student %d twice", c.ID, id)
			}
			roster[id] = struct{}{}
		}
		courses[c.ID] = struct{}{}
	}

	grades := make(map[string]struct{}, len(s.Grades))
	for _, g := range s.Grades {
		if g == nil {
			return errors.New("nil grade in seed")
		}
		if _, ok := grades[g.ID]; ok {
			return errors.Errorf("duplicate grade id %q", g.ID)
		}
		if _, ok := students[g.Student]; !ok {
			return errors.Errorf("grade %q references unknown student %d", g.ID, g.Student)
		}
		if _, ok := courses[g.Course]; !ok {
			return errors.Errorf("grade %q references unknown course %d", g.ID, g.Course)
		}
		if _, ok := GradeLabel(g.Grade); !ok {
			return errors.Errorf("grade %q has code %d, want 0..%d",
				g.ID, g.Grade, len(Grades)-1)
		}
		grades[g.ID] = struct{}{}
	}
	return nil
}

// GPA is the mean grade code rounded to two decimals, or NoGPA when there are
// no grades.
func GPA(grades []*Grade) float64 {
	if len(grades) == 0 {
		return NoGPA
	}
	var sum int
	for _, g := range grades {
		sum += g.Grade
	}
	mean := float64(sum) / float64(len(grades))
	return math.Round(mean*100) / 100
}

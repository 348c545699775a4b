/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"fmt"
	"strings"
)

// Person holds the attributes shared by instructors and students.
type Person struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Age    int    `json:"age" yaml:"age"`
	Gender string `json:"gender" yaml:"gender"`
}

// FirstName is the first space separated word of the name.
func (p Person) FirstName() string {
	words := strings.Fields(p.Name)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// LastName is the last space separated word of the name.
func (p Person) LastName() string {
	words := strings.Fields(p.Name)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

func (p Person) attr(name string) (interface{}, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "firstName":
		return p.FirstName(), true
	case "lastName":
		return p.LastName(), true
	case "age":
		return p.Age, true
	case "gender":
		return p.Gender, true
	}
	return nil, false
}

type Instructor struct {
	Person `yaml:",inline"`
}

func (i *Instructor) Attr(name string) (interface{}, bool) {
	return i.attr(name)
}

type Student struct {
	Person `yaml:",inline"`
	// Level is 1-indexed into Levels.
	Level int `json:"level" yaml:"level"`
}

func (s *Student) Attr(name string) (interface{}, bool) {
	if name == "level" {
		return s.Level, true
	}
	return s.attr(name)
}

type Course struct {
	ID         int    `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Instructor int    `json:"instructor" yaml:"instructor"`
	Students   []int  `json:"students" yaml:"students"`
}

func (c *Course) Attr(name string) (interface{}, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "instructor":
		return c.Instructor, true
	}
	return nil, false
}

// Enrolls reports whether the student with the given id is on the roster.
func (c *Course) Enrolls(student int) bool {
	for _, id := range c.Students {
		if id == student {
			return true
		}
	}
	return false
}

type Grade struct {
	ID      string `json:"id" yaml:"id"`
	Student int    `json:"student" yaml:"student"`
	Course  int    `json:"course" yaml:"course"`
	// Grade is 0-indexed into Grades.
	Grade int `json:"grade" yaml:"grade"`
}

func (g *Grade) Attr(name string) (interface{}, bool) {
	switch name {
	case "id":
		return g.ID, true
	case "student":
		return g.Student, true
	case "course":
		return g.Course, true
	case "grade":
		return g.Grade, true
	}
	return nil, false
}

// GradeID is the identifier assigned to a grade that was seeded without one.
func GradeID(student, course int) string {
	return fmt.Sprintf("%d:%d", student, course)
}

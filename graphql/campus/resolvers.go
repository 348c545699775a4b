/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package campus wires the campus GraphQL schema to a store snapshot.
package campus

import (
	"context"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/hypermodeinc/campus/graphql/resolve"
	"github.com/hypermodeinc/campus/graphql/schema"
	"github.com/hypermodeinc/campus/lookup"
	"github.com/hypermodeinc/campus/store"
)

// Default attributes list filters compare against when filterBy is absent.
const (
	defaultInstructorFilter = "name"
	defaultStudentFilter    = "name"
	defaultCourseFilter     = "name"
	defaultGradeFilter      = "grade"
)

// rootID is the global id of the query root.
var rootID = base64.StdEncoding.EncodeToString([]byte("Query:"))

type args = map[string]interface{}

// New returns a RequestResolver serving snap through the campus schema s.
func New(s *schema.Schema, snap *store.Snapshot) *resolve.RequestResolver {
	return resolve.New(s, Resolvers(s, snap))
}

// Resolvers returns the field resolvers of the campus schema over snap.
// Fields not registered here read the attribute of the same name from their
// parent record.
func Resolvers(s *schema.Schema, snap *store.Snapshot) resolve.ResolverFactory {
	r := &resolvers{snap: snap}
	return resolve.NewResolverFactory().
		WithTypeResolvers("Query", r.query()).
		WithTypeResolvers("Instructor", r.instructor()).
		WithTypeResolvers("Student", r.student()).
		WithTypeResolvers("Course", r.course()).
		WithTypeResolvers("Grade", r.grade()).
		WithSchemaIntrospection(s)
}

type resolvers struct {
	snap *store.Snapshot
}

func (r *resolvers) query() map[string]resolve.ResolverFunc {
	return map[string]resolve.ResolverFunc{
		"id": func(context.Context, interface{}, args) (interface{}, error) {
			return rootID, nil
		},
		"instructors": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return filterAndPaginate(r.snap.Instructors, defaultInstructorFilter, a)
		},
		"students": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return filterAndPaginate(r.snap.Students, defaultStudentFilter, a)
		},
		"courses": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return filterAndPaginate(r.snap.Courses, defaultCourseFilter, a)
		},
		"grades": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return filterAndPaginate(r.snap.Grades, defaultGradeFilter, a)
		},
		"instructor": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return findByID(r.snap.Instructors, a)
		},
		"student": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return findByID(r.snap.Students, a)
		},
		"course": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return findByID(r.snap.Courses, a)
		},
		"grade": func(_ context.Context, _ interface{}, a args) (interface{}, error) {
			return findByID(r.snap.Grades, a)
		},
		"levels": func(context.Context, interface{}, args) (interface{}, error) {
			return append([]string(nil), store.Levels...), nil
		},
		"gradeLetters": func(context.Context, interface{}, args) (interface{}, error) {
			return append([]string(nil), store.Grades...), nil
		},
	}
}

func (r *resolvers) instructor() map[string]resolve.ResolverFunc {
	return map[string]resolve.ResolverFunc{
		"coursesConnection": func(_ context.Context, parent interface{}, a args) (
			interface{}, error) {
			i, err := parentAs[*store.Instructor](parent)
			if err != nil {
				return nil, err
			}
			return paginate(lookup.FindAll(r.snap.Courses, "instructor", i.ID), a)
		},
	}
}

func (r *resolvers) student() map[string]resolve.ResolverFunc {
	return map[string]resolve.ResolverFunc{
		"level": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			st, err := parentAs[*store.Student](parent)
			if err != nil {
				return nil, err
			}
			if l, ok := store.LevelLabel(st.Level); ok {
				return l, nil
			}
			return nil, nil
		},
		"GPA": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			st, err := parentAs[*store.Student](parent)
			if err != nil {
				return nil, err
			}
			// NoGPA is NaN, which completes to null.
			return store.GPA(lookup.FindAll(r.snap.Grades, "student", st.ID)), nil
		},
		"gradesConnection": func(_ context.Context, parent interface{}, a args) (
			interface{}, error) {
			st, err := parentAs[*store.Student](parent)
			if err != nil {
				return nil, err
			}
			return paginate(lookup.FindAll(r.snap.Grades, "student", st.ID), a)
		},
		"coursesConnection": func(_ context.Context, parent interface{}, a args) (
			interface{}, error) {
			st, err := parentAs[*store.Student](parent)
			if err != nil {
				return nil, err
			}
			return paginate(lookup.Where(r.snap.Courses, func(c *store.Course) bool {
				return c.Enrolls(st.ID)
			}), a)
		},
	}
}

func (r *resolvers) course() map[string]resolve.ResolverFunc {
	return map[string]resolve.ResolverFunc{
		"instructor": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			c, err := parentAs[*store.Course](parent)
			if err != nil {
				return nil, err
			}
			return findOne(r.snap.Instructors, "id", c.Instructor), nil
		},
		"studentsConnection": func(_ context.Context, parent interface{}, a args) (
			interface{}, error) {
			c, err := parentAs[*store.Course](parent)
			if err != nil {
				return nil, err
			}
			// Roster order, not store order.
			roster := make([]*store.Student, 0, len(c.Students))
			for _, id := range c.Students {
				if st, ok := lookup.FindOne(r.snap.Students, "id", id); ok {
					roster = append(roster, st)
				}
			}
			return paginate(roster, a)
		},
		"gradesConnection": func(_ context.Context, parent interface{}, a args) (
			interface{}, error) {
			c, err := parentAs[*store.Course](parent)
			if err != nil {
				return nil, err
			}
			return paginate(lookup.FindAll(r.snap.Grades, "course", c.ID), a)
		},
	}
}

func (r *resolvers) grade() map[string]resolve.ResolverFunc {
	return map[string]resolve.ResolverFunc{
		"student": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			g, err := parentAs[*store.Grade](parent)
			if err != nil {
				return nil, err
			}
			return findOne(r.snap.Students, "id", g.Student), nil
		},
		"course": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			g, err := parentAs[*store.Grade](parent)
			if err != nil {
				return nil, err
			}
			return findOne(r.snap.Courses, "id", g.Course), nil
		},
		"grade": func(_ context.Context, parent interface{}, _ args) (interface{}, error) {
			g, err := parentAs[*store.Grade](parent)
			if err != nil {
				return nil, err
			}
			if l, ok := store.GradeLabel(g.Grade); ok {
				return l, nil
			}
			return nil, nil
		},
	}
}

func parentAs[T any](parent interface{}) (T, error) {
	p, ok := parent.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("expected a %T to resolve from, got %T", zero, parent)
	}
	return p, nil
}

// findOne returns the match, or an untyped nil so the executor sees null.
func findOne[T lookup.Record](c []T, attr string, value interface{}) interface{} {
	r, ok := lookup.FindOne(c, attr, value)
	if !ok {
		return nil
	}
	return r
}

func findByID[T lookup.Record](c []T, a args) (interface{}, error) {
	return findOne(c, "id", a["id"]), nil
}

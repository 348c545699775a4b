/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package seed

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/hypermodeinc/campus/store"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
	driverMySQL    = "mysql"
)

// Tables is the DDL of the tables SQL seed sources read. Records are read in
// id order, course rosters in position order.
const Tables = `
CREATE TABLE instructors (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	gender TEXT NOT NULL
);
CREATE TABLE students (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER NOT NULL,
	gender TEXT NOT NULL,
	level INTEGER NOT NULL
);
CREATE TABLE courses (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	instructor INTEGER NOT NULL
);
CREATE TABLE enrollments (
	course INTEGER NOT NULL,
	student INTEGER NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (course, student)
);
CREATE TABLE grades (
	student INTEGER NOT NULL,
	course INTEGER NOT NULL,
	grade INTEGER NOT NULL,
	PRIMARY KEY (student, course)
);
`

const (
	selectInstructors = `SELECT id, name, age, gender FROM instructors ORDER BY id`
	selectStudents    = `SELECT id, name, age, gender, level FROM students ORDER BY id`
	selectCourses     = `SELECT id, name, instructor FROM courses ORDER BY id`
	selectEnrollments = `SELECT course, student FROM enrollments ORDER BY course, position`
	selectGrades      = `SELECT student, course, grade FROM grades ORDER BY student, course`
)

func readSQL(ctx context.Context, driver, dsn string) (*store.Snapshot, error) {
	if driver == driverSQLite {
		// sqlite would create a missing file and then fail on the first table.
		if _, err := os.Stat(dsn); err != nil {
			return nil, errors.Wrapf(err, "while opening sqlite seed")
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening %s seed", driver)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrapf(err, "while connecting to %s seed", driver)
	}
	return ReadDB(ctx, db)
}

// mysqlDSN turns mysql://user:pw@host:port/db?param=v into the driver's DSN.
func mysqlDSN(u *url.URL) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if q := u.Query(); len(q) > 0 {
		cfg.Params = make(map[string]string, len(q))
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg.FormatDSN()
}

// ReadDB reads a snapshot from the Tables of db.
func ReadDB(ctx context.Context, db *sql.DB) (*store.Snapshot, error) {
	instructors, err := query(ctx, db, selectInstructors, func(rows *sql.Rows) (*store.Instructor, error) {
		i := &store.Instructor{}
		return i, rows.Scan(&i.ID, &i.Name, &i.Age, &i.Gender)
	})
	if err != nil {
		return nil, err
	}
	students, err := query(ctx, db, selectStudents, func(rows *sql.Rows) (*store.Student, error) {
		s := &store.Student{}
		return s, rows.Scan(&s.ID, &s.Name, &s.Age, &s.Gender, &s.Level)
	})
	if err != nil {
		return nil, err
	}
	courses, err := query(ctx, db, selectCourses, func(rows *sql.Rows) (*store.Course, error) {
		c := &store.Course{Students: []int{}}
		return c, rows.Scan(&c.ID, &c.Name, &c.Instructor)
	})
	if err != nil {
		return nil, err
	}
	grades, err := query(ctx, db, selectGrades, func(rows *sql.Rows) (*store.Grade, error) {
		g := &store.Grade{}
		return g, rows.Scan(&g.Student, &g.Course, &g.Grade)
	})
	if err != nil {
		return nil, err
	}

	type enrollment struct{ course, student int }
	enrollments, err := query(ctx, db, selectEnrollments, func(rows *sql.Rows) (enrollment, error) {
		var e enrollment
		err := rows.Scan(&e.course, &e.student)
		return e, err
	})
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*store.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	for _, e := range enrollments {
		c, ok := byID[e.course]
		if !ok {
			return nil, errors.Errorf("enrollment of student %d in unknown course %d",
				e.student, e.course)
		}
		c.Students = append(c.Students, e.student)
	}

	return store.New(instructors, students, courses, grades)
}

func query[T any](ctx context.Context, db *sql.DB, q string,
	scan func(*sql.Rows) (T, error)) ([]T, error) {

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "while running %q", q)
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return nil, errors.Wrapf(err, "while scanning %q", q)
		}
		out = append(out, r)
	}
	return out, errors.Wrapf(rows.Err(), "while reading %q", q)
}

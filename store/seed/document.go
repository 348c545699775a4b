/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package seed

import (
	"bytes"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hypermodeinc/campus/store"
)

// Format is the encoding of a seed document.
type Format int

const (
	YAML Format = iota
	JSON
)

// document is the layout of YAML and JSON seeds.
//
//	instructors:
//	  - {id: 13, name: Cade Hercules Nichols, age: 2, gender: male}
//	students:
//	  - {id: 7, name: Nicholas Neumann-Chun, age: 126, gender: male, level: 1}
//	courses:
//	  - {id: 101, name: Skydiving, instructor: 13, students: [7]}
//	grades:
//	  - {student: 7, course: 101, grade: 0}
type document struct {
	Instructors []*store.Instructor `yaml:"instructors"`
	Students    []*store.Student    `yaml:"students"`
	Courses     []*store.Course     `yaml:"courses"`
	Grades      []*store.Grade      `yaml:"grades"`
}

// Decode reads a seed document from r. JSON is decoded as the YAML subset it
// is, so both formats share one set of field names.
func Decode(r io.Reader, f Format) (*store.Snapshot, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		if f == JSON {
			return nil, errors.Wrapf(err, "while decoding JSON seed")
		}
		return nil, errors.Wrapf(err, "while decoding YAML seed")
	}
	return store.New(doc.Instructors, doc.Students, doc.Courses, doc.Grades)
}

func readFile(path string) (*store.Snapshot, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading seed file")
	}
	glog.V(2).Infof("Read %s of seed from %s", humanize.IBytes(uint64(len(b))), path)
	return Decode(bytes.NewReader(b), f)
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package seed loads the campus dataset from a seed URI. Every source produces
// a validated store.Snapshot that is never modified afterwards.
//
// Supported URIs:
//
//	builtin://                      the dataset campus ships with
//	file:///path/seed.yaml          YAML or JSON, also as a bare path
//	sqlite:///path/campus.db        tables described by Tables
//	postgres://user:pw@host/db      tables described by Tables
//	mysql://user:pw@host:3306/db    tables described by Tables
//	s3://bucket/key.yaml            YAML or JSON object
package seed

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/campus/store"
)

const (
	// Builtin is the seed URI of the dataset campus ships with.
	Builtin = "builtin://"

	schemeBuiltin    = "builtin"
	schemeFile       = "file"
	schemeSQLite     = "sqlite"
	schemePostgres   = "postgres"
	schemePostgresql = "postgresql"
	schemeMySQL      = "mysql"
	schemeS3         = "s3"
)

// Open loads the snapshot named by uri.
func Open(ctx context.Context, uri string) (*store.Snapshot, error) {
	snap, err := open(ctx, uri)
	if err != nil {
		return nil, errors.Wrapf(err, "while loading seed %s", redact(uri))
	}
	glog.Infof("Loaded seed %s: %d instructors, %d students, %d courses, %d grades",
		redact(uri), len(snap.Instructors), len(snap.Students), len(snap.Courses),
		len(snap.Grades))
	return snap, nil
}

func open(ctx context.Context, uri string) (*store.Snapshot, error) {
	if uri == "" {
		uri = Builtin
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid seed URI")
	}

	switch strings.ToLower(u.Scheme) {
	case schemeBuiltin:
		return store.Builtin(), nil
	case "":
		return readFile(uri)
	case schemeFile:
		return readFile(u.Host + u.Path)
	case schemeSQLite:
		return readSQL(ctx, driverSQLite, u.Host+u.Path)
	case schemePostgres, schemePostgresql:
		return readSQL(ctx, driverPostgres, uri)
	case schemeMySQL:
		return readSQL(ctx, driverMySQL, mysqlDSN(u))
	case schemeS3:
		return readS3(ctx, u)
	}
	return nil, errors.Errorf("unsupported seed scheme %q", u.Scheme)
}

// formatOf picks a document format from the name's extension.
func formatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return 0, errors.Errorf("cannot tell the format of %q, want .yaml, .yml or .json", name)
}

// redact hides the password of a seed URI for logging.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	return u.Redacted()
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	auditMaxSizeMB = 100
	auditMaxAge    = 10
)

// InitLogger creates a JSON audit logger appending to dir/filename. The file
// is rotated at auditMaxSizeMB and rotated files are gzipped and kept for
// auditMaxAge days.
func InitLogger(dir string, filename string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "while creating audit dir %s", dir)
	}
	w := &LogWriter{
		FilePath: filepath.Join(dir, filename),
		MaxSize:  auditMaxSizeMB,
		MaxAge:   auditMaxAge,
		Compress: true,
	}
	return NewLogger(zapcore.AddSync(w)), nil
}

// NewLogger creates a JSON audit logger writing to ws.
func NewLogger(ws zapcore.WriteSyncer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		ws, zap.DebugLevel)
	return &Logger{
		logger: zap.New(core),
	}
}

// Logger writes audit entries. A nil *Logger is valid and discards everything.
type Logger struct {
	logger *zap.Logger
}

func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i = i + 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		flds = append(flds, zap.Any(key, args[i+1]))
	}
	return flds
}

// AuditI logs msg at info level with the given key/value pairs.
func (l *Logger) AuditI(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Info(msg, fields(args)...)
}

// AuditE logs msg at error level with the given key/value pairs.
func (l *Logger) AuditE(msg string, args ...interface{}) {
	if l == nil {
		return
	}
	l.logger.Error(msg, fields(args)...)
}

func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.logger.Sync()
}

/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

const (
	backupTimeFormat = "2006-01-02T15-04-05.000"
)

var _ io.WriteCloser = (*LogWriter)(nil)

// LogWriter appends to FilePath. Once the file would grow past MaxSize
// megabytes it is renamed with a timestamp suffix and a new file is started.
// Rotated files older than MaxAge days are removed, the rest are gzipped when
// Compress is set.
type LogWriter struct {
	FilePath string
	MaxSize  int64
	MaxAge   int // number of days
	Compress bool

	mu              sync.Mutex
	size            int64
	file            *os.File
	mch             chan bool
	startDirManager sync.Once
}

func (l *LogWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		l.manageLogDir()
		if err := l.open(); err != nil {
			return 0, errors.Wrapf(err, "not able to create new file")
		}
	}

	if l.MaxSize > 0 && l.size+int64(len(p)) >= l.MaxSize*1024*1024 {
		if err := l.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := l.file.Write(p)
	l.size = l.size + int64(n)
	return n, err
}

// Sync flushes the current file to disk.
func (l *LogWriter) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	return l.file.Sync()
}

func (l *LogWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *LogWriter) open() error {
	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	l.file = f
	l.size = info.Size()
	return nil
}

func (l *LogWriter) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}
	l.file = nil

	if err := os.Rename(l.FilePath, backupName(l.FilePath, time.Now())); err != nil {
		return errors.Wrapf(err, "can't rename log file")
	}

	err := l.open()
	l.manageLogDir()
	return err
}

func backupName(name string, now time.Time) string {
	dir := filepath.Dir(name)
	prefix, ext := prefixAndExt(name)
	timestamp := now.Format(backupTimeFormat)
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", prefix, timestamp, ext))
}

func compress(src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gzf, err := os.OpenFile(src+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = gzf.Close() }()

	gz := gzip.NewWriter(gzf)
	if _, err := io.Copy(gz, f); err != nil {
		_ = os.Remove(src + ".gz")
		return err
	}
	if err := gz.Close(); err != nil {
		_ = os.Remove(src + ".gz")
		return err
	}
	// close the descriptors because we need to delete the file
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func (l *LogWriter) manageLogDir() {
	l.startDirManager.Do(func() {
		l.mch = make(chan bool, 1)
		go func() {
			for range l.mch {
				l.manageOldLogs()
			}
		}()
	})

	select {
	case l.mch <- true:
	default:
	}
}

// this should be called in a serial order
func (l *LogWriter) manageOldLogs() {
	toRemove, toKeep, err := processOldLogFiles(l.FilePath, l.MaxAge, time.Now())
	if err != nil {
		glog.Warningf("error while managing old log files: %v", err)
		return
	}

	for _, f := range toRemove {
		errRemove := os.Remove(filepath.Join(filepath.Dir(l.FilePath), f))
		if err == nil && errRemove != nil {
			err = errRemove
		}
	}

	if l.Compress {
		for _, f := range toKeep {
			// already compressed no need
			if strings.HasSuffix(f, ".gz") {
				continue
			}
			errCompress := compress(filepath.Join(filepath.Dir(l.FilePath), f))
			if err == nil && errCompress != nil {
				err = errCompress
			}
		}
	}

	if err != nil {
		glog.Warningf("error while managing old log files: %v", err)
	}
}

func prefixAndExt(file string) (prefix, ext string) {
	filename := filepath.Base(file)
	ext = filepath.Ext(filename)
	prefix = filename[:len(filename)-len(ext)]
	return prefix, ext
}

// processOldLogFiles splits the rotated files of fp into those older than
// maxAge days and the rest. A maxAge of 0 keeps everything.
func processOldLogFiles(fp string, maxAge int, now time.Time) ([]string, []string, error) {
	dir := filepath.Dir(fp)
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "can't read log file directory")
	}

	prefix, ext := prefixAndExt(fp)
	// check only for old files. Those files have - before the time
	prefix = prefix + "-"
	toRemove := make([]string, 0)
	toKeep := make([]string, 0)
	cutoff := now.Add(-time.Duration(maxAge) * 24 * time.Hour)

	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".gz")
		if !strings.HasSuffix(stamp, ext) {
			continue
		}
		ts, err := time.Parse(backupTimeFormat, strings.TrimSuffix(stamp, ext))
		if err != nil {
			continue
		}
		if maxAge > 0 && ts.Before(cutoff) {
			toRemove = append(toRemove, name)
		} else {
			toKeep = append(toKeep, name)
		}
	}

	return toRemove, toKeep, nil
}

// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tabular

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"tableview/source"
)

// Loader turns a resolved source into tables.
type Loader struct {
	mem           memory.Allocator
	log           *slog.Logger
	sqliteTimeout time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithAllocator sets the Arrow allocator used for every table.
func WithAllocator(mem memory.Allocator) Option {
	return func(l *Loader) { l.mem = mem }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithSQLiteTimeout bounds the time spent reading one SQLite database.
// Zero or negative disables the bound.
func WithSQLiteTimeout(d time.Duration) Option {
	return func(l *Loader) { l.sqliteTimeout = d }
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		mem: memory.DefaultAllocator,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every table of src. Piped data is always parsed as comma
// separated text; files are dispatched by extension.
func (l *Loader) Load(ctx context.Context, src source.Source) (set TableSet, err error) {
	defer l.recoverLoad(src.Title(), &set, &err)

	switch src.Kind {
	case source.Piped:
		l.log.Info("loading data from stdin", "bytes", len(src.Data))
		t, err := l.ReadDelimited(src.Title(), bytes.NewReader(src.Data), ',')
		if err != nil {
			return nil, err
		}
		return TableSet{t}, nil
	case source.File:
		return l.LoadFile(ctx, src.Path, ParseSelector(src.Selector))
	default:
		return nil, errors.New("no input source")
	}
}

// LoadFile loads the tables of one file. The selector only applies to
// formats holding several sheets or tables.
func (l *Loader) LoadFile(ctx context.Context, filePath string, sel Selector) (set TableSet, err error) {
	defer l.recoverLoad(filePath, &set, &err)

	format := DetectFormat(filePath)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filePath))
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, filePath)
	}

	if !sel.IsZero() && !format.MultiTable() {
		l.log.Debug("selector ignored for single table format", "format", format, "selector", sel)
	}
	l.log.Info("reading data from file", "path", filePath, "format", format, "selector", sel)

	switch format {
	case FormatCSV, FormatTSV:
		return l.loadDelimitedFile(filePath, format)
	case FormatXLSX:
		return l.loadXLSX(filePath, sel)
	case FormatXLS:
		return l.loadXLS(filePath, sel)
	case FormatODS:
		return l.loadODS(filePath, sel)
	case FormatSQLite:
		return l.loadSQLite(ctx, filePath, sel)
	case FormatParquet:
		return l.loadParquet(ctx, filePath)
	case FormatJSON:
		return l.loadJSON(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// recoverLoad turns a panic raised by a reader library into ErrMalformed
// so callers report it like any other unreadable input.
func (l *Loader) recoverLoad(name string, set *TableSet, err *error) {
	if r := recover(); r != nil {
		l.log.Error("reader panicked", "source", name, "panic", r)
		set.Release()
		*set, *err = nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, r)
	}
}

func (l *Loader) loadDelimitedFile(filePath string, format Format) (TableSet, error) {
	comma := ','
	if format == FormatTSV {
		comma = '\t'
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", format, err)
	}
	defer f.Close()

	t, err := l.ReadDelimited(filepath.Base(filePath), f, comma)
	if err != nil {
		return nil, err
	}
	return TableSet{t}, nil
}

// sheetTables loads the chosen sheets of a workbook. readSheet is only
// called for the sheets the selector picks.
func (l *Loader) sheetTables(names []string, sel Selector, readSheet func(i int) ([][]string, error)) (TableSet, error) {
	picked, err := sel.pick(names)
	if err != nil {
		return nil, err
	}

	set := make(TableSet, 0, len(picked))
	for _, i := range picked {
		rows, err := readSheet(i)
		if err != nil {
			set.Release()
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformed, names[i], err)
		}
		t := Table{Name: names[i], Data: newStringTable(l.mem, rows)}
		l.log.Debug("loaded sheet", "sheet", t.Name, "rows", t.NumRows(), "columns", t.NumCols())
		set = append(set, t)
	}
	return set, nil
}

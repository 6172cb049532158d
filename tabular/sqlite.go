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
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// loadSQLite loads the chosen tables of a SQLite database. The database is
// opened read-only; tables are listed in creation order.
func (l *Loader) loadSQLite(ctx context.Context, filePath string, sel Selector) (TableSet, error) {
	if l.sqliteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.sqliteTimeout)
		defer cancel()
	}

	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	names, err := listTables(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %v", ErrMalformed, err)
	}

	picked, err := sel.pick(names)
	if err != nil {
		return nil, err
	}

	set := make(TableSet, 0, len(picked))
	for _, i := range picked {
		t, err := l.readSQLiteTable(ctx, db, names[i])
		if err != nil {
			set.Release()
			return nil, fmt.Errorf("%w: table %q: %v", ErrMalformed, names[i], err)
		}
		l.log.Debug("loaded table", "table", t.Name, "rows", t.NumRows(), "columns", t.NumCols())
		set = append(set, t)
	}
	return set, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (l *Loader) readSQLiteTable(ctx context.Context, db *sql.DB, name string) (Table, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return Table{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Table{}, err
	}

	columns := make([][]any, len(cols))
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Table{}, err
		}
		for i, v := range values {
			columns[i] = append(columns[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return Table{}, err
	}

	tbl, err := newValueTable(l.mem, cols, columns)
	if err != nil {
		return Table{}, err
	}
	return Table{Name: name, Data: tbl}, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

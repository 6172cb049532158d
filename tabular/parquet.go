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
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// loadParquet loads a Parquet file through the Arrow reader
func (l *Loader) loadParquet(ctx context.Context, filePath string) (TableSet, error) {
	// Open the parquet file
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	// Create a parquet file reader
	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create parquet reader: %v", ErrMalformed, err)
	}
	defer pf.Close()

	// Convert parquet to Arrow table
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, l.mem)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create arrow reader: %v", ErrMalformed, err)
	}

	// Read all data into an Arrow table
	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read parquet data: %v", ErrMalformed, err)
	}

	return TableSet{{Name: filepath.Base(filePath), Data: table}}, nil
}

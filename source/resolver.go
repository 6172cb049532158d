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

package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// StdinProbe reports whether standard input has data (or end of file)
// pending, waiting at most timeout.
type StdinProbe interface {
	Ready(ctx context.Context, timeout time.Duration) (bool, error)
}

// Picker lets the user choose a file. An empty path with a nil error means
// the user cancelled.
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// Resolver decides where the input comes from.
type Resolver struct {
	Stdin  io.Reader
	Probe  StdinProbe
	Picker Picker

	// PollTimeout bounds the first stdin check; zero is a pure poll.
	PollTimeout time.Duration
	// RecheckTimeout bounds the stdin check after the picker was cancelled.
	RecheckTimeout time.Duration
	// Name is the display name given to piped data.
	Name string

	Logger *slog.Logger
}

// NewResolver returns a Resolver reading the process's standard input.
func NewResolver(picker Picker) *Resolver {
	return &Resolver{
		Stdin:  os.Stdin,
		Probe:  NewStdinProbe(os.Stdin),
		Picker: picker,
	}
}

// Resolve picks the input source. A path in args wins and stdin is left
// alone; args[1], if present, is the sheet or table selector. Without a
// path, piped data is used when stdin has any. Otherwise the picker is shown
// once, and if it is cancelled stdin is checked one more time for a producer
// that was slow to start. A None source means there is nothing to show.
func (r *Resolver) Resolve(ctx context.Context, args []string) (Source, error) {
	log := r.logger()

	if len(args) > 0 && args[0] != "" {
		src, err := fileSource(args[0])
		if err != nil {
			return Source{}, err
		}
		if len(args) > 1 {
			src.Selector = args[1]
		}
		log.Debug("input from argument", "path", src.Path, "selector", src.Selector)
		return src, nil
	}

	data, ok, err := r.readStdin(ctx, r.PollTimeout)
	if err != nil {
		return Source{}, err
	}
	if ok {
		log.Info("loaded data from stdin", "bytes", len(data))
		return Source{Kind: Piped, Data: data, Name: r.Name}, nil
	}

	var path string
	if r.Picker != nil {
		log.Info("no stdin or filename, showing file dialog")
		path, err = r.Picker.Pick(ctx)
		if err != nil {
			return Source{}, fmt.Errorf("file dialog: %w", err)
		}
	}
	if path != "" {
		log.Info("file selected", "path", path)
		return fileSource(path)
	}

	data, ok, err = r.readStdin(ctx, r.RecheckTimeout)
	if err != nil {
		return Source{}, err
	}
	if ok {
		log.Info("loaded late data from stdin", "bytes", len(data))
		return Source{Kind: Piped, Data: data, Name: r.Name}, nil
	}

	log.Info("no input file selected")
	return Source{Kind: None}, nil
}

// readStdin reads all of stdin if the probe reports it ready. Input made of
// blank lines only counts as no input.
func (r *Resolver) readStdin(ctx context.Context, timeout time.Duration) ([]byte, bool, error) {
	if r.Probe == nil || r.Stdin == nil {
		return nil, false, nil
	}
	ready, err := r.Probe.Ready(ctx, timeout)
	if err != nil {
		return nil, false, fmt.Errorf("check stdin: %w", err)
	}
	if !ready {
		return nil, false, nil
	}

	data, err := io.ReadAll(r.Stdin)
	if err != nil {
		return nil, false, fmt.Errorf("read stdin: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		r.logger().Debug("stdin is empty")
		return nil, false, nil
	}
	return data, true, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func fileSource(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve path %s: %w", path, err)
	}
	return Source{Kind: File, Path: abs}, nil
}

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

//go:build !unix

package source

import (
	"context"
	"os"
	"time"
)

type statProbe struct {
	f *os.File
}

// NewStdinProbe returns a probe that inspects what kind of file f is. A pipe
// or a non-empty redirected file counts as ready; a console never does.
func NewStdinProbe(f *os.File) StdinProbe {
	return &statProbe{f: f}
}

func (p *statProbe) Ready(ctx context.Context, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fi, err := p.f.Stat()
	if err != nil {
		return false, nil
	}
	switch mode := fi.Mode(); {
	case mode&os.ModeNamedPipe != 0:
		return true, nil
	case mode.IsRegular():
		return fi.Size() > 0, nil
	default:
		return false, nil
	}
}

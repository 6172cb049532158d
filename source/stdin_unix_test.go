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

//go:build unix

package source

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollProbe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	probe := NewStdinProbe(r)
	ctx := context.Background()

	ready, err := probe.Ready(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ready, "empty pipe with a live writer")

	start := time.Now()
	ready, err = probe.Ready(ctx, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	_, err = w.WriteString("a,b\n")
	require.NoError(t, err)
	ready, err = probe.Ready(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ready)

	buf := make([]byte, 16)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	ready, err = probe.Ready(ctx, 0)
	require.NoError(t, err)
	assert.True(t, ready, "closed writer reports end of file")
}

func TestPollProbeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStdinProbe(os.Stdin).Ready(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

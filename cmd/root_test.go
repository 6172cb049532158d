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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	})
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags undoes flag parsing between tests. The config path is left
// empty so no test reads the user's real configuration.
func resetFlags() {
	cfgFile, verbose, pollTimeout, pipedName = "", false, 0, ""
	rootCmd.Flags().Lookup("poll-timeout").Changed = false
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tableview "+Version)
	assert.Contains(t, out, "Commit:")
}

func TestTooManyArgs(t *testing.T) {
	_, err := execute(t, "a.xlsx", "Sheet1", "extra")
	assert.Error(t, err)
}

func TestInvalidConfigFailsBeforeWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0o644))

	_, err := execute(t, "--config", path, "data.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme")
}

func TestNegativePollTimeout(t *testing.T) {
	_, err := execute(t, "--config", "", "--poll-timeout", "-1s")
	assert.ErrorContains(t, err, "--poll-timeout")
}

func TestLoadConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stdin:\n  poll_timeout: 2s\n"), 0o644))

	cfgFile = path
	verbose = true
	t.Cleanup(resetFlags)

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Stdin.PollTimeout, "file value kept when the flag is unset")
	assert.Equal(t, "debug", cfg.Log.Level)

	require.NoError(t, rootCmd.Flags().Set("poll-timeout", "150ms"))
	cfg, err = loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, cfg.Stdin.PollTimeout)
}

func TestExitCodeError(t *testing.T) {
	assert.Equal(t, "exit status 1", exitCode(1).Error())
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/steamctlgo/internal/config"
)

const setsYAML = `
aq:
  defaults:
    - --titles
  wide:
    - --attrs genres,price
    - --sort name
acq:
  defaults: --chop
`

func loadSets(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "steamctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(setsYAML), 0o600))
	t.Setenv("STEAMCTL_CFG", path)
	config.Config.Namespace = ""
	_, err := config.Load()
	require.NoError(t, err)
}

func TestMangleArguments(t *testing.T) {
	loadSets(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults go right after the command",
			args: []string{"steamctl", "aq", "440"},
			want: []string{"steamctl", "aq", "--titles", "440"},
		},
		{
			name: "named set replaces the marker",
			args: []string{"steamctl", "aq", "440", "@wide", "-o", "json"},
			want: []string{"steamctl", "aq", "440", "--attrs", "genres,price", "--sort", "name", "-o", "json"},
		},
		{
			name: "unknown set expands to nothing",
			args: []string{"steamctl", "aq", "@nope", "440"},
			want: []string{"steamctl", "aq", "440"},
		},
		{
			name: "scalar set",
			args: []string{"steamctl", "acq", "440"},
			want: []string{"steamctl", "acq", "--chop", "440"},
		},
		{
			name: "no sets for the command",
			args: []string{"steamctl", "uq", "gabelogannewell"},
			want: []string{"steamctl", "uq", "gabelogannewell"},
		},
		{
			name: "help wins",
			args: []string{"steamctl", "aq", "440", "-h"},
			want: []string{"steamctl", "aq", "--help"},
		},
		{
			name: "flag in place of a command",
			args: []string{"steamctl", "--version"},
			want: []string{"steamctl", "--version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(append([]string{}, tt.args...)))
		})
	}
}

// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestConfig sets STEAMCTL_CFG to point to a test config file and resets
// the global Config.
func setupTestConfig(t *testing.T, testdataFile string) {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("testdata", testdataFile))
	require.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("STEAMCTL_CFG", absPath)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "abc123", cfg.Data["key"])
				assert.Equal(t, "english", cfg.Data["language"])
			},
		},
		{
			name:     "nested structure",
			testFile: "nested.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				uq, ok := cfg.Data["uq"].(map[string]interface{})
				require.True(t, ok, "uq should be a map")
				assert.Equal(t, "json", uq["output"])
				assert.Equal(t, true, uq["titles"])
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "steamctl", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["color"])
				assert.Equal(t, 2.5, cfg.Data["padding"])
				tags, ok := cfg.Data["tags"].([]interface{})
				assert.True(t, ok)
				assert.Len(t, tags, 2)
			},
		},
		{
			name:     "empty file",
			testFile: "empty.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source, "should have a source path")
				assert.Empty(t, cfg.Data)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			cfg, err := Load()
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("STEAMCTL_CFG", "/nonexistent/path/steamctl.yaml")
	Config = Type{}

	_, err := Load()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_CfgIsDirectory(t *testing.T) {
	t.Setenv("STEAMCTL_CFG", "testdata")
	Config = Type{}

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestLoad_StandardLocations(t *testing.T) {
	dir := t.TempDir()
	abs, err := filepath.Abs(filepath.Join("testdata", "simple.yaml"))
	require.NoError(t, err)
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), data, 0o600))

	t.Setenv("STEAMCTL_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	Config = Type{}
	t.Cleanup(func() { Config = Type{} })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Source)
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{name: "simple string value", testFile: "simple.yaml", key: "key", want: "abc123"},
		{name: "nested string value", testFile: "nested.yaml", key: "uq.output", want: "json"},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []string{"dflt"}, want: "dflt"},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-string value", testFile: "mixed-types.yaml", key: "version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetString(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{name: "int value", testFile: "mixed-types.yaml", key: "version", want: 1},
		{name: "float value converted to int", testFile: "mixed-types.yaml", key: "padding", want: 2},
		{name: "nested int value", testFile: "nested.yaml", key: "http.max_idle", want: 5},
		{name: "missing key with default", testFile: "simple.yaml", key: "missing", defaultValue: []int{60}, want: 60},
		{name: "missing key without default", testFile: "simple.yaml", key: "missing", wantErr: true},
		{name: "non-int value", testFile: "simple.yaml", key: "key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestConfig(t, tt.testFile)

			got, err := GetInt(tt.key, tt.defaultValue...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	setupTestConfig(t, "mixed-types.yaml")

	v, err := GetBool("color")
	assert.NoError(t, err)
	assert.True(t, v)

	v, err = GetBool("missing", true)
	assert.NoError(t, err)
	assert.True(t, v)

	_, err = GetBool("name")
	assert.ErrorIs(t, err, ErrNotBool)
}

func TestGetDuration(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	d, err := GetDuration("http.timeout")
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	d, err = GetDuration("http.max_idle")
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	d, err = GetDuration("missing", time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, err = GetDuration("uq.output")
	assert.ErrorIs(t, err, ErrNotDuration)
}

func TestGetStringSlice(t *testing.T) {
	setupTestConfig(t, "sets.yaml")

	v, err := GetStringSlice("acq.defaults")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--sort -percent", "--titles"}, v)

	v, err = GetStringSlice("acq.mine")
	assert.NoError(t, err)
	assert.Equal(t, []string{"--user 76561197960287930"}, v)

	_, err = GetStringSlice("gq.bad")
	assert.ErrorIs(t, err, ErrNotList)

	_, err = GetStringSlice("nope")
	assert.Error(t, err)
}

func TestConfig_GetWithNamespace(t *testing.T) {
	setupTestConfig(t, "nested.yaml")

	_, err := Load()
	require.NoError(t, err)

	Config.Namespace = "uq"
	val, err := Config.get("output")
	assert.NoError(t, err)
	assert.Equal(t, "json", val)

	// Falls back to the bare key when the namespace lacks it.
	val, err = Config.get("cc")
	assert.NoError(t, err)
	assert.Equal(t, "us", val)

	Config.Namespace = "aq"
	val, err = Config.get("cc")
	assert.NoError(t, err)
	assert.Equal(t, "gb", val)
}

func TestConfig_LazyLoad(t *testing.T) {
	setupTestConfig(t, "simple.yaml")

	val, err := GetString("language")
	assert.NoError(t, err)
	assert.Equal(t, "english", val)
	assert.NotEmpty(t, Config.Source, "Config should be loaded")
}

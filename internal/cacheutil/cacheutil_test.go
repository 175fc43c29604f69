// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STEAMCTL_CACHE_DIR", dir)
	t.Setenv("STEAMCTL_CACHE", "")
	return dir
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("STEAMCTL_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestDir_EnvOverride(t *testing.T) {
	dir := withCacheDir(t)
	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)
}

func TestWriteRead(t *testing.T) {
	withCacheDir(t)
	subdirs := []string{"store.steampowered.com"}

	_, ok := Read(subdirs, "/api/appdetails?appids=440")
	assert.False(t, ok)

	require.NoError(t, Write(subdirs, "/api/appdetails?appids=440", []byte(" {\"ok\":true}\n")))

	entry, ok := Read(subdirs, "/api/appdetails?appids=440")
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, string(entry.Data))
	assert.Equal(t, encodeKey("/api/appdetails?appids=440"), entry.EncodedKey)
	assert.FileExists(t, entry.Path)
}

func TestWrite_Disabled(t *testing.T) {
	dir := withCacheDir(t)
	t.Setenv("STEAMCTL_CACHE", "0")

	require.NoError(t, Write([]string{"x"}, "k", []byte("v")))
	_, err := os.Stat(filepath.Join(dir, "x"))
	assert.True(t, os.IsNotExist(err))

	_, ok := Read([]string{"x"}, "k")
	assert.False(t, ok)
}

func TestReadFresh(t *testing.T) {
	withCacheDir(t)
	require.NoError(t, Write(nil, "k", []byte("v")))

	p, ok := EntryPath(nil, "k")
	require.True(t, ok)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	_, ok = ReadFresh(nil, "k", time.Hour)
	assert.False(t, ok)

	_, ok = ReadFresh(nil, "k", 3*time.Hour)
	assert.True(t, ok)

	_, ok = ReadFresh(nil, "k", -1)
	assert.True(t, ok, "negative max age accepts any age")
}

func TestPurge(t *testing.T) {
	withCacheDir(t)
	require.NoError(t, Write([]string{"a"}, "old", []byte("1")))
	require.NoError(t, Write([]string{"a"}, "new", []byte("2")))

	p, _ := EntryPath([]string{"a"}, "old")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(p, old, old))

	require.NoError(t, Purge(0))
	assert.FileExists(t, p)

	require.NoError(t, Purge(24))
	assert.NoFileExists(t, p)

	_, ok := Read([]string{"a"}, "new")
	assert.True(t, ok)
}

func TestEnsureBaseDir(t *testing.T) {
	dir := withCacheDir(t)
	base := filepath.Join(dir, "nested", "steamctl")
	t.Setenv("STEAMCTL_CACHE_DIR", base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("STEAMCTL_CACHE", "false")
	_, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
}

package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertArgs(t *testing.T) {
	args := ConvertArgs("in/movie.mkv", "out/movie.mp4")
	assert.Equal(t, []string{
		"-y",
		"-i", "in/movie.mkv",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-strict", "experimental",
		"out/movie.mp4",
	}, args)
}

func TestConvertCommandUsesResolvedPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, ExecutableName())
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	ff, err := NewAt(bin)
	require.NoError(t, err)

	cmd := ff.ConvertCommand(context.Background(), "a.mkv", "b.mp4")
	assert.Equal(t, bin, cmd.Path)
	assert.Equal(t, "b.mp4", cmd.Args[len(cmd.Args)-1])
}

func TestLocateSearchesDirsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	bin := filepath.Join(second, ExecutableName())
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	ff, err := Locate([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, bin, ff.Path())
}

func TestLocateIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ExecutableName()), 0o755))
	t.Setenv("PATH", "")

	_, err := Locate([]string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNewAtMissing(t *testing.T) {
	_, err := NewAt(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

package ui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkvtomp4/config"
	"mkvtomp4/convert"
)

func newTestApp(t *testing.T, conv Converter) (*App, uiQueue) {
	t.Helper()
	fyneApp := test.NewTempApp(t)
	q := newUIQueue()
	a := &App{
		fyneApp: fyneApp,
		window:  fyneApp.NewWindow("test"),
		cfg:     config.DefaultConfig(),
		logger:  slog.New(slog.DiscardHandler),
		conv:    conv,
		post:    q.post,
		ctx:     context.Background(),
		cancel:  func() {},
	}
	a.window.SetContent(a.createConverter())
	return a, q
}

func TestConverterFormRunsConversion(t *testing.T) {
	input, output := tempInput(t)
	conv := &fakeConverter{
		ticks:   []convert.Tick{{Percent: 30}},
		outcome: convert.Outcome{Kind: convert.Success},
	}
	a, q := newTestApp(t, conv)
	v := a.view

	v.inputEntry.SetText(input)
	v.outputEntry.SetText(output)
	test.Tap(v.startBtn)

	assert.True(t, v.startBtn.Disabled())
	assert.Equal(t, "0% | 00:00 / ?", v.progressLabel.Text)

	q.runUntil(t, func() bool { return !v.startBtn.Disabled() })

	assert.Equal(t, int32(1), conv.calls.Load())
	assert.Equal(t, idleProgressLabel, v.progressLabel.Text)
	assert.Equal(t, 0.0, v.progressBar.Value)
	assert.Equal(t, Idle, v.controller.State())
	assert.NotNil(t, a.window.Canvas().Overlays().Top(), "result dialog shown")
}

func TestConverterFormRejectsMissingInput(t *testing.T) {
	conv := &fakeConverter{}
	a, _ := newTestApp(t, conv)
	v := a.view

	v.outputEntry.SetText(filepath.Join(t.TempDir(), "movie.mp4"))
	test.Tap(v.startBtn)

	assert.False(t, v.startBtn.Disabled())
	assert.Equal(t, int32(0), conv.calls.Load())
	assert.NotNil(t, a.window.Canvas().Overlays().Top(), "validation dialog shown")
}

type pathURI struct {
	fyne.URI
	path string
}

func (u pathURI) Path() string {
	return u.path
}

func TestLocalPath(t *testing.T) {
	windows := pathURI{path: "/C:/Videos/movie.mkv"}
	assert.Equal(t, filepath.FromSlash("C:/Videos/movie.mkv"), localPath(windows))

	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "movie.mkv"), localPath(storage.NewFileURI(filepath.Join(dir, "movie.mkv"))))
}

func TestOutputNameHelpers(t *testing.T) {
	assert.Equal(t, "movie.mp4", withExtension("movie.mp4", ".mp4"))
	assert.Equal(t, "movie.MP4", withExtension("movie.MP4", ".mp4"))
	assert.Equal(t, "movie.mp4", withExtension("movie", ".mp4"))
	assert.Equal(t, "movie.mkv.mp4", withExtension("movie.mkv", ".mp4"))

	assert.Equal(t, "movie.mp4", suggestedOutputName(filepath.Join("videos", "movie.mkv")))
	assert.Equal(t, "output.mp4", suggestedOutputName(""))
}

func TestRemoveIfEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.mp4")
	full := filepath.Join(dir, "full.mp4")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	require.NoError(t, os.WriteFile(full, []byte("data"), 0o644))

	removeIfEmpty(empty)
	removeIfEmpty(full)
	removeIfEmpty(filepath.Join(dir, "missing.mp4"))

	assert.NoFileExists(t, empty)
	assert.FileExists(t, full)
}

package ui

import (
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"mkvtomp4/convert"
)

// converterView is the single conversion form. It implements View.
type converterView struct {
	a *App

	inputEntry    *widget.Entry
	outputEntry   *widget.Entry
	progressBar   *widget.ProgressBar
	progressLabel *widget.Label
	startBtn      *widget.Button

	controller *Controller
}

// createConverter builds the conversion form and its controller
func (a *App) createConverter() fyne.CanvasObject {
	v := &converterView{a: a}

	v.inputEntry = widget.NewEntry()
	v.inputEntry.SetPlaceHolder("movie.mkv")
	v.outputEntry = widget.NewEntry()
	v.outputEntry.SetPlaceHolder("movie.mp4")

	v.progressBar = widget.NewProgressBar()
	v.progressBar.Max = 100
	v.progressLabel = widget.NewLabel(idleProgressLabel)
	v.progressLabel.Alignment = fyne.TextAlignCenter

	browseInputBtn := widget.NewButton("Browse", v.selectInput)
	selectOutputBtn := widget.NewButton("Choose where to save", v.selectOutput)

	v.startBtn = widget.NewButton("Start conversion", func() {
		if err := v.controller.Start(v.inputEntry.Text, v.outputEntry.Text); err != nil {
			a.logger.Debug("start rejected", "error", err)
		}
	})
	v.startBtn.Importance = widget.HighImportance

	v.controller = NewController(a.ctx, a.conv, v, a.post, a.logger)
	a.view = v

	return container.NewVBox(
		widget.NewLabel("Select an MKV file:"),
		v.inputEntry,
		browseInputBtn,
		widget.NewLabel("Save as MP4:"),
		v.outputEntry,
		selectOutputBtn,
		widget.NewSeparator(),
		v.progressBar,
		v.progressLabel,
		v.startBtn,
	)
}

func (v *converterView) SetStartEnabled(enabled bool) {
	if enabled {
		v.startBtn.Enable()
	} else {
		v.startBtn.Disable()
	}
}

func (v *converterView) SetProgress(percent float64, label string) {
	v.progressBar.SetValue(percent)
	v.progressLabel.SetText(label)
}

func (v *converterView) ShowValidation(message string) {
	v.a.showError("Invalid input", message)
}

func (v *converterView) ShowOutcome(outcome convert.Outcome) {
	title, message := outcomeMessage(outcome)
	if outcome.Kind == convert.Success {
		v.a.showInfo(title, message)
		return
	}
	v.a.showError(title, message)
}

func (v *converterView) selectInput() {
	a := v.a
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("Error", err.Error())
			return
		}
		if reader == nil {
			return
		}
		reader.Close()

		path := localPath(reader.URI())
		v.inputEntry.SetText(path)
		a.cfg.LastInputDir = filepath.Dir(path)
	}, a.window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mkv", ".MKV"}))
	setDialogLocation(fd, a.cfg.LastInputDir)
	fd.Show()
}

func (v *converterView) selectOutput() {
	a := v.a
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("Error", err.Error())
			return
		}
		if writer == nil {
			return
		}
		writer.Close()

		path := localPath(writer.URI())
		// The save dialog creates the file; drop the empty placeholder so a
		// run that produces nothing is not mistaken for success.
		removeIfEmpty(path)

		path = withExtension(path, ".mp4")
		v.outputEntry.SetText(path)
		a.cfg.LastOutputDir = filepath.Dir(path)
	}, a.window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp4", ".MP4"}))
	fd.SetFileName(suggestedOutputName(v.inputEntry.Text))
	dir := a.cfg.LastOutputDir
	if dir == "" && v.inputEntry.Text != "" {
		dir = filepath.Dir(v.inputEntry.Text)
	}
	setDialogLocation(fd, dir)
	fd.Show()
}

// setDialogLocation starts fd in dir when it can be listed
func setDialogLocation(fd *dialog.FileDialog, dir string) {
	if dir == "" {
		return
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err == nil {
		fd.SetLocation(listable)
	}
}

// localPath converts a dialog URI to an OS path, fixing "/C:/..." on Windows.
func localPath(uri fyne.URI) string {
	path := uri.Path()
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

func withExtension(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

func suggestedOutputName(inputPath string) string {
	if strings.TrimSpace(inputPath) == "" {
		return "output.mp4"
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".mp4"
}

func removeIfEmpty(path string) {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() == 0 {
		os.Remove(path)
	}
}

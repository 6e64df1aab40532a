package ui

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"mkvtomp4/config"
	"mkvtomp4/convert"
	"mkvtomp4/ffmpeg"
	"mkvtomp4/logging"
)

// App represents the main application
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	ff      *ffmpeg.FFmpeg
	cfg     *config.Config
	logger  *slog.Logger

	conv Converter
	post func(func())
	view *converterView

	// Cancelled when the window closes so a running ffmpeg does not outlive us.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates a new application instance
func NewApp() (*App, error) {
	ff, err := ffmpeg.New()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		logger, _ = logging.New(logging.Options{Level: "info", Format: "auto"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ff:     ff,
		cfg:    cfg,
		logger: logger,
		conv:   convert.NewRunner(ff, convert.WithLogger(logger)),
		post:   fyne.Do,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Run starts the application
func (a *App) Run() {
	a.fyneApp = app.NewWithID("com.mkvtomp4.converter")
	a.window = a.fyneApp.NewWindow("MKV → MP4 Converter")
	a.window.Resize(fyne.NewSize(520, 340))
	a.window.SetFixedSize(true)

	a.window.SetContent(a.createConverter())
	a.window.SetOnClosed(func() {
		a.cancel()
		if err := a.cfg.Save(); err != nil {
			a.logger.Warn("save settings failed", "error", err)
		}
	})

	a.logger.Info("converter ready", "ffmpeg", a.ff.Path())
	a.window.ShowAndRun()
}

// showError displays a modal error dialog
func (a *App) showError(title, message string) {
	content := container.NewHBox(
		widget.NewIcon(theme.ErrorIcon()),
		widget.NewLabel(message),
	)
	dialog.ShowCustom(title, "OK", content, a.window)
}

// showInfo displays a modal info dialog
func (a *App) showInfo(title, message string) {
	dialog.ShowInformation(title, message, a.window)
}

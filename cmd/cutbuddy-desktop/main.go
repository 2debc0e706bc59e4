// CutBuddy desktop: linear cut list optimizer.
//
// A cross-platform desktop application for planning cuts from bar,
// board and pipe stock and exporting plans, labels and saw programs.
//
// Build:
//   go build -o cutbuddy-desktop ./cmd/cutbuddy-desktop
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o cutbuddy-desktop.exe ./cmd/cutbuddy-desktop
//   GOOS=darwin  GOARCH=amd64 go build -o cutbuddy-desktop-darwin ./cmd/cutbuddy-desktop
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/piwi3910/cutbuddy/internal/model"
	"github.com/piwi3910/cutbuddy/internal/project"
	"github.com/piwi3910/cutbuddy/internal/ui"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		logger.Warn("config unreadable, using defaults", zap.Error(err))
		config = model.DefaultAppConfig()
	}
	if err := project.RegisterCustomProfiles(project.DefaultProfilesPath()); err != nil {
		logger.Warn("custom saw profiles not loaded", zap.Error(err))
	}

	application := app.NewWithID("com.piwi3910.cutbuddy")
	ui.ApplyTheme(application, config.Theme)

	window := application.NewWindow("CutBuddy: Linear Cut List Optimizer")

	appUI := ui.NewApp(window, logger, config)
	appUI.SetupMenus()
	window.SetContent(ui.WithToolTips(appUI.Build(), window.Canvas()))
	window.SetOnClosed(appUI.Close)
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()
	window.ShowAndRun()
}

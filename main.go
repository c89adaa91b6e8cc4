// Package main provides the entry point for the Label Press application.
package main

import (
	"log"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"labelpress/internal/app"
	"labelpress/internal/model"
	"labelpress/internal/store"
	"labelpress/internal/version"
	"labelpress/ui/mainwindow"
	"labelpress/ui/prefs"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", version.App, version.Version)

	fyneApp := fyneapp.NewWithID("labelpress")
	fyneApp.Settings().SetTheme(&app.LabelPressTheme{})

	appPrefs := prefs.Load()

	st, err := store.Open()
	if err != nil {
		log.Fatalf("open layout store: %v", err)
	}

	sizeID := appPrefs.String(prefs.KeyLabelSize, model.DefaultSizeID)
	session, err := app.NewSession(st, sizeID)
	if err != nil {
		log.Printf("session for size %s: %v, falling back to default", sizeID, err)
		session, err = app.NewSession(st, model.DefaultSizeID)
		if err != nil {
			log.Fatalf("create session: %v", err)
		}
	}

	win := mainwindow.New(fyneApp, session, appPrefs)
	setupHotReload(win)

	win.Show()
	fyneApp.Run()

	win.SavePreferences()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferencesIfChanged()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}

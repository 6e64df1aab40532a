package main

import (
	"fmt"
	"os"

	"mkvtomp4/ffmpeg"
	"mkvtomp4/ui"
)

func main() {
	app, err := ui.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nPlease ensure %s is next to the application or in the bin/ folder.\n", ffmpeg.ExecutableName())
		fmt.Fprintf(os.Stderr, "Download from: https://www.gyan.dev/ffmpeg/builds/\n")
		os.Exit(1)
	}

	app.Run()
}

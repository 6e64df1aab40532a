package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"mkvtomp4/convert"
)

// outcomeMessage returns the dialog title and body for a finished run.
func outcomeMessage(o convert.Outcome) (title, message string) {
	var b strings.Builder
	switch o.Kind {
	case convert.Success:
		title = "Conversion complete"
		fmt.Fprintf(&b, "MP4 file created:\n%s", o.OutputPath)
		if o.OutputSize > 0 {
			fmt.Fprintf(&b, "\n%s in %s", humanize.Bytes(uint64(o.OutputSize)), formatClock(o.Elapsed))
		}
		return title, b.String()
	case convert.InvalidInput:
		return "Invalid input", o.Message
	case convert.ProcessFailed:
		title = "Conversion failed"
		fmt.Fprintf(&b, "ffmpeg exited with code %d.", o.ExitCode)
	case convert.OutputMissing:
		title = "Conversion failed"
		b.WriteString("The MP4 file was not created.")
	default:
		title = "Conversion failed"
		fmt.Fprintf(&b, "Something went wrong:\n%s", o.Message)
	}
	if o.LogPath != "" {
		fmt.Fprintf(&b, "\nSee log: %s", o.LogPath)
	}
	return title, b.String()
}

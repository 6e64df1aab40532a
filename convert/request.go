// Package convert runs a single MKV → MP4 conversion through ffmpeg,
// logging the tool's output next to the target file and reporting an
// approximate progress percentage while it works.
package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrProcessFailed = errors.New("ffmpeg failed")
	ErrOutputMissing = errors.New("output file missing")
	ErrUnexpected    = errors.New("unexpected error")
)

// InputError explains why a Request cannot be launched.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Reason
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Request names the file to convert and where to write the result.
type Request struct {
	InputPath  string
	OutputPath string
}

// Validate checks that both paths are set and the input is a readable
// regular file. Failures are *InputError values.
func (r Request) Validate() error {
	if strings.TrimSpace(r.InputPath) == "" || strings.TrimSpace(r.OutputPath) == "" {
		return &InputError{Reason: "select a source file and an output location"}
	}

	info, err := os.Stat(r.InputPath)
	if err != nil {
		return &InputError{Reason: "source file not found: " + r.InputPath}
	}
	if !info.Mode().IsRegular() {
		return &InputError{Reason: "source is not a regular file: " + r.InputPath}
	}

	f, err := os.Open(r.InputPath)
	if err != nil {
		return &InputError{Reason: "source file is not readable: " + r.InputPath}
	}
	f.Close()

	return nil
}

// LogPath returns where the ffmpeg output for this request is written.
func (r Request) LogPath() string {
	return LogPathFor(r.OutputPath)
}

// LogPathFor replaces the extension of outputPath with ".log". An output
// that already ends in ".log" keeps it and gains a second one so the log
// never overwrites the output.
func LogPathFor(outputPath string) string {
	ext := filepath.Ext(outputPath)
	if strings.EqualFold(ext, ".log") {
		return outputPath + ".log"
	}
	return strings.TrimSuffix(outputPath, ext) + ".log"
}

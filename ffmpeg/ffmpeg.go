package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Fixed encoder settings for MKV → MP4 conversion.
const (
	VideoCodec = "libx264"
	AudioCodec = "aac"
)

// FFmpeg wraps the bundled ffmpeg executable
type FFmpeg struct {
	path string
}

// ExecutableName returns the platform-specific ffmpeg binary name.
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// New creates a new FFmpeg wrapper, looking for the binary next to the
// application executable before falling back to PATH.
func New() (*FFmpeg, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	return Locate([]string{
		exeDir,                             // Bundled alongside the executable
		filepath.Join(exeDir, "bin"),       // Next to executable
		filepath.Join(exeDir, "..", "bin"), // Parent/bin (for development)
		"bin",                              // Relative to working directory
	})
}

// Locate searches dirs in order for the ffmpeg binary, then PATH.
func Locate(dirs []string) (*FFmpeg, error) {
	name := ExecutableName()

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return &FFmpeg{path: candidate}, nil
		}
	}

	// Fall back to PATH
	if path, err := exec.LookPath(name); err == nil {
		return &FFmpeg{path: path}, nil
	}

	return nil, fmt.Errorf("%s not found. Please place it next to the application or in the bin/ folder", name)
}

// NewAt wraps an ffmpeg binary at an explicit path.
func NewAt(path string) (*FFmpeg, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found at %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("ffmpeg path %s is a directory", path)
	}
	return &FFmpeg{path: path}, nil
}

// Path returns the resolved executable path.
func (f *FFmpeg) Path() string {
	return f.path
}

// ConvertArgs returns the arguments (without the program name) that
// re-encode inputPath into outputPath, overwriting any existing output.
func ConvertArgs(inputPath, outputPath string) []string {
	return []string{
		"-y", // Overwrite output
		"-i", inputPath,
		"-c:v", VideoCodec,
		"-c:a", AudioCodec,
		"-strict", "experimental",
		outputPath,
	}
}

// ConvertCommand builds the conversion command. The process is killed if
// ctx is done before it exits. Output wiring is left to the caller.
func (f *FFmpeg) ConvertCommand(ctx context.Context, inputPath, outputPath string) *exec.Cmd {
	return exec.CommandContext(ctx, f.path, ConvertArgs(inputPath, outputPath)...)
}

package convert

import (
	"bytes"
	"time"
)

// AssumedDuration is the fixed conversion length the progress estimate is
// scaled against. ffmpeg output is not parsed for the real media duration.
const AssumedDuration = 10 * time.Second

// Tick is one progress update emitted while ffmpeg runs.
type Tick struct {
	Percent float64
	Elapsed time.Duration
}

// Percent maps elapsed wall-clock time onto [0, 100] against assumed.
func Percent(elapsed, assumed time.Duration) float64 {
	if assumed <= 0 {
		return 100
	}
	if elapsed <= 0 {
		return 0
	}
	pct := elapsed.Seconds() / assumed.Seconds() * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// scanOutputLines splits ffmpeg output on "\n", "\r\n" and bare "\r". ffmpeg
// redraws its status line with carriage returns, so treating those as line
// breaks keeps progress flowing while it encodes.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// Trailing '\r': wait to see whether a '\n' follows.
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

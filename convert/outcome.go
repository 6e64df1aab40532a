package convert

import (
	"fmt"
	"time"
)

// Kind classifies how a conversion run ended.
type Kind int

const (
	Success Kind = iota
	InvalidInput
	ProcessFailed
	OutputMissing
	UnexpectedError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case InvalidInput:
		return "invalid_input"
	case ProcessFailed:
		return "process_failed"
	case OutputMissing:
		return "output_missing"
	case UnexpectedError:
		return "unexpected_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the terminal result of one run. LogPath is empty when the run
// never got far enough to create a log.
type Outcome struct {
	Kind       Kind
	OutputPath string
	LogPath    string
	ExitCode   int
	Message    string
	OutputSize int64
	Elapsed    time.Duration
}

// Err returns nil for a successful run and otherwise an error matching the
// sentinel for the outcome's kind.
func (o Outcome) Err() error {
	switch o.Kind {
	case Success:
		return nil
	case InvalidInput:
		return &InputError{Reason: o.Message}
	case ProcessFailed:
		return fmt.Errorf("%w: %s", ErrProcessFailed, o.Message)
	case OutputMissing:
		return fmt.Errorf("%w: %s", ErrOutputMissing, o.Message)
	default:
		return fmt.Errorf("%w: %s", ErrUnexpected, o.Message)
	}
}

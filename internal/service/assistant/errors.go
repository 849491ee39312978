package assistant

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrRunTimedOut is returned when a run is still pending after the poll budget is spent.
	ErrRunTimedOut = errors.New("assistant run timed out")
	// ErrRunFailed matches any *RunError.
	ErrRunFailed = errors.New("assistant run did not complete")
	// ErrEmptyReply is returned when the thread holds no text reply after the posted message.
	ErrEmptyReply = errors.New("assistant produced no text reply")
)

// RunError reports a run that reached a terminal status other than completed.
type RunError struct {
	RunID   string
	Status  openai.RunStatus
	Code    string
	Message string
}

func (e *RunError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assistant run %s ended with status %s", e.RunID, e.Status)
	}
	return fmt.Sprintf("assistant run %s ended with status %s: %s (%s)", e.RunID, e.Status, e.Message, e.Code)
}

// Is lets errors.Is(err, ErrRunFailed) match.
func (e *RunError) Is(target error) bool {
	return target == ErrRunFailed
}

func newRunError(run openai.Run) *RunError {
	err := &RunError{RunID: run.ID, Status: run.Status}
	if run.LastError != nil {
		err.Code = string(run.LastError.Code)
		err.Message = run.LastError.Message
	}
	return err
}

package export

import "errors"

var (
	// ErrRunInProgress means another export run holds the pipeline.
	ErrRunInProgress = errors.New("an export is already in progress")

	// ErrNothingEnabled means neither NFO nor artwork output is enabled.
	ErrNothingEnabled = errors.New("no export outputs enabled")

	// ErrEmptyScope means no items or libraries were selected.
	ErrEmptyScope = errors.New("no items or libraries selected")
)

package script

import "errors"

var (
	// ErrEmptySequence indicates a script with no steps.
	ErrEmptySequence = errors.New("script: sequence has no steps")

	// ErrUnknownKind indicates a step kind outside the supported set.
	ErrUnknownKind = errors.New("script: unknown step kind")

	// ErrUnknownPreset indicates a preset name that is not bundled.
	ErrUnknownPreset = errors.New("script: unknown preset")
)

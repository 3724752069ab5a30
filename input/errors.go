package input

import "errors"

var (
	ErrUnnamedControl   = errors.New("input: control has no name")
	ErrUnnamedDevice    = errors.New("input: device has no name")
	ErrNilDevice        = errors.New("input: device is nil")
	ErrInvalidAction    = errors.New("input: action name is empty")
	ErrMissingControl   = errors.New("input: binding has no control")
	ErrTooFewControls   = errors.New("input: composite needs at least 2 controls")
	ErrMalformedControl = errors.New("input: malformed composite control")
)

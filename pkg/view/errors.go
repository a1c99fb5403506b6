package view

import "errors"

// Configuration errors returned by NewGraph and NewStream.
var (
	ErrMissingLabel     = errors.New("requires 'label' option")
	ErrMissingEvents    = errors.New("requires at least one event name")
	ErrMissingMetric    = errors.New("requires a metric extractor")
	ErrMissingLayout    = errors.New("requires a layout config with GetPosition")
	ErrMissingContainer = errors.New("requires a container")
	ErrMissingFactory   = errors.New("requires a widget factory")
	ErrMissingBus       = errors.New("requires an event bus")
)

package dbuilder

// State is the run state of an extraction.
type State int

const (
	// StateIdle means no extraction has started yet.
	StateIdle State = iota

	// StateRunning means the extraction loop is in progress.
	StateRunning

	// StateComplete means the input was exhausted. A success state.
	StateComplete

	// StateStoppedByLimit means the run stopped early because the
	// stored-record cap was hit or every target was satisfied. Also a
	// success state.
	StateStoppedByLimit
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateComplete:
		return "Complete"
	case StateStoppedByLimit:
		return "StoppedByLimit"
	default:
		return "Unknown"
	}
}

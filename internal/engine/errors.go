package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrSubmitInFlight rejects a submission while another is outstanding.
	ErrSubmitInFlight = constError("a calculation is already in progress")

	// ErrInvalidTimeFrame is returned for a time frame other than year or month.
	ErrInvalidTimeFrame = constError("invalid time frame")
)

package canvas

import "errors"

// Sentinel errors returned by Result.Err.
var (
	ErrEmptyID     = errors.New("canvas: empty id")
	ErrNilValue    = errors.New("canvas: nil value")
	ErrDuplicateID = errors.New("canvas: duplicate id")
	ErrNotFound    = errors.New("canvas: not found")
	ErrUnsupported = errors.New("canvas: unsupported by this store")
	ErrEmptyInput  = errors.New("canvas: empty input")
)

// Reason explains why a command was rejected or only partially applied.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonEmptyID     Reason = "empty_id"
	ReasonNilValue    Reason = "nil_value"
	ReasonDuplicateID Reason = "duplicate_id"
	ReasonNotFound    Reason = "not_found"
	ReasonUnsupported Reason = "unsupported"
	ReasonEmptyInput  Reason = "empty_input"
)

var reasonErrors = map[Reason]error{
	ReasonEmptyID:     ErrEmptyID,
	ReasonNilValue:    ErrNilValue,
	ReasonDuplicateID: ErrDuplicateID,
	ReasonNotFound:    ErrNotFound,
	ReasonUnsupported: ErrUnsupported,
	ReasonEmptyInput:  ErrEmptyInput,
}

// Result is the outcome of a store command. Commands never panic or return
// errors; callers that care inspect the Result.
type Result struct {
	Applied bool
	Reason  Reason
}

// Applied is the result of a command that changed state.
func Applied() Result {
	return Result{Applied: true}
}

// Rejected is the result of a command that was a no-op.
func Rejected(reason Reason) Result {
	return Result{Reason: reason}
}

// OK reports whether the command applied without remarks.
func (r Result) OK() bool {
	return r.Applied && r.Reason == ReasonNone
}

// Err maps the reason to its sentinel error, nil when there is none.
func (r Result) Err() error {
	if r.Reason == ReasonNone {
		return nil
	}
	if err, ok := reasonErrors[r.Reason]; ok {
		return err
	}
	return errors.New("canvas: " + string(r.Reason))
}

func (r Result) String() string {
	switch {
	case r.OK():
		return "applied"
	case r.Applied:
		return "applied (" + string(r.Reason) + ")"
	default:
		return "rejected (" + string(r.Reason) + ")"
	}
}

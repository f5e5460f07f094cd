package schedule

// rows are validated one at a time so a bad row only costs that row
//    every error coming out of this package wraps one of these

import (
	"errors"
	"fmt"
)

var (
	// start is not strictly before end
	ErrMalformedEntry = errors.New("malformed entry")

	ErrUnknownWeekday = errors.New("unknown weekday")

	// a required column was absent or blank
	ErrMissingField = errors.New("missing field")

	ErrInvalidTime = errors.New("invalid time of day")
)

// RowError ties a load or classification failure to the row that caused it.
// Index is the source row for load errors and the position in the entries
// slice, labelled "entry", for errors raised by Classify.
type RowError struct {
	Index int
	// "row" when empty
	Item  string
	Code  string
	Field string
	Err   error
}

func (e *RowError) Error() string {
	item := e.Item
	if item == "" {
		item = "row"
	}
	switch {
	case e.Field != "" && e.Code != "":
		return fmt.Sprintf("%s %d (%s): %s: %v", item, e.Index, e.Code, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s %d: %s: %v", item, e.Index, e.Field, e.Err)
	case e.Code != "":
		return fmt.Sprintf("%s %d (%s): %v", item, e.Index, e.Code, e.Err)
	default:
		return fmt.Sprintf("%s %d: %v", item, e.Index, e.Err)
	}
}

func (e *RowError) Unwrap() error {
	return e.Err
}

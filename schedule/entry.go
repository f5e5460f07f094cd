package schedule

import (
	"fmt"
	"strings"
)

// Row is the textual form of an entry as it comes out of a source
type Row struct {
	Code    string `csv:"code" json:"code" db:"code"`
	Name    string `csv:"name" json:"name" db:"name"`
	Section string `csv:"section" json:"section" db:"section"`
	Room    string `csv:"room" json:"room" db:"room"`
	Weekday string `csv:"weekday" json:"weekday" db:"weekday"`
	Start   string `csv:"start" json:"start" db:"start_time"`
	End     string `csv:"end" json:"end" db:"end_time"`
}

type Entry struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Section string    `json:"section"`
	Room    string    `json:"room"`
	Weekday Weekday   `json:"weekday"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
}

// Validate checks the time order invariant, the only one that cannot be
// enforced by the types
func (e Entry) Validate() error {
	if !e.Weekday.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownWeekday, int(e.Weekday))
	}
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: %s starts at %s but ends at %s", ErrMalformedEntry, e.Code, e.Start, e.End)
	}
	return nil
}

// ParseRow turns a row into an entry. index is only used for error reporting
// and is the position of the row within its source.
func ParseRow(index int, row Row) (Entry, error) {
	code := strings.TrimSpace(row.Code)
	required := []struct {
		field string
		value string
	}{
		{"code", row.Code},
		{"name", row.Name},
		{"section", row.Section},
		{"room", row.Room},
		{"weekday", row.Weekday},
		{"start", row.Start},
		{"end", row.End},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return Entry{}, &RowError{Index: index, Code: code, Field: r.field, Err: ErrMissingField}
		}
	}

	weekday, err := ParseWeekday(row.Weekday)
	if err != nil {
		return Entry{}, &RowError{Index: index, Code: code, Field: "weekday", Err: err}
	}
	start, err := ParseTimeOfDay(row.Start)
	if err != nil {
		return Entry{}, &RowError{Index: index, Code: code, Field: "start", Err: err}
	}
	end, err := ParseTimeOfDay(row.End)
	if err != nil {
		return Entry{}, &RowError{Index: index, Code: code, Field: "end", Err: err}
	}

	entry := Entry{
		Code:    code,
		Name:    strings.TrimSpace(row.Name),
		Section: strings.TrimSpace(row.Section),
		Room:    strings.TrimSpace(row.Room),
		Weekday: weekday,
		Start:   start,
		End:     end,
	}
	if err := entry.Validate(); err != nil {
		return Entry{}, &RowError{Index: index, Code: code, Err: err}
	}
	return entry, nil
}

// LoadRows parses every row it can, the returned errors are all *RowError
func LoadRows(rows []Row) ([]Entry, []error) {
	entries := make([]Entry, 0, len(rows))
	var errs []error
	for i, row := range rows {
		entry, err := ParseRow(i, row)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, errs
}

// ToRow is the inverse of ParseRow for a valid entry
func (e Entry) ToRow() Row {
	return Row{
		Code:    e.Code,
		Name:    e.Name,
		Section: e.Section,
		Room:    e.Room,
		Weekday: e.Weekday.String(),
		Start:   e.Start.String(),
		End:     e.End.String(),
	}
}

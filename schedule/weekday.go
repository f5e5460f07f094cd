package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// every accepted spelling, lowercased
//    the portuguese names are what the original spreadsheets were filled with
var weekdayAliases = map[string]Weekday{
	"monday":    Monday,
	"mon":       Monday,
	"segunda":   Monday,
	"tuesday":   Tuesday,
	"tue":       Tuesday,
	"terça":     Tuesday,
	"terca":     Tuesday,
	"wednesday": Wednesday,
	"wed":       Wednesday,
	"quarta":    Wednesday,
	"thursday":  Thursday,
	"thu":       Thursday,
	"quinta":    Thursday,
	"friday":    Friday,
	"fri":       Friday,
	"sexta":     Friday,
	"saturday":  Saturday,
	"sat":       Saturday,
	"sábado":    Saturday,
	"sabado":    Saturday,
	"sunday":    Sunday,
	"sun":       Sunday,
	"domingo":   Sunday,
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeekday, int(d))
	}
	return json.Marshal(d.String())
}

func (d *Weekday) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday accepts english names and abbreviations as well as the
// portuguese names (with or without accents and the "-feira" suffix)
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, "-feira")
	key = strings.TrimSuffix(key, " feira")
	if d, ok := weekdayAliases[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayOf is the weekday of t's civil date in t's own location
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts the week on sunday
	return Weekday((int(t.Weekday()) + 6) % 7)
}

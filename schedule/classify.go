package schedule

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status int

const (
	Ongoing Status = iota
	Upcoming
	Ended
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Upcoming:
		return "upcoming"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

type Period int

const (
	// only reachable when the morning has a lower bound
	Early Period = iota
	Morning
	Afternoon
	Evening
)

func (p Period) String() string {
	switch p {
	case Early:
		return "early"
	case Morning:
		return "morning"
	case Afternoon:
		return "afternoon"
	case Evening:
		return "evening"
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Config holds the knobs the different dashboards never agreed on
type Config struct {
	// hour the morning starts at, anything before it is Early
	MorningStart   int  `json:"morning_start"`
	AfternoonStart int  `json:"afternoon_start"`
	EveningStart   int  `json:"evening_start"`
	ShowEnded      bool `json:"show_ended"`
}

func DefaultConfig() Config {
	return Config{
		MorningStart:   0,
		AfternoonStart: 12,
		EveningStart:   18,
		ShowEnded:      false,
	}
}

func (c Config) Validate() error {
	if c.MorningStart < 0 || c.MorningStart > c.AfternoonStart ||
		c.AfternoonStart > c.EveningStart || c.EveningStart > 24 {
		return fmt.Errorf(
			"period boundaries must satisfy 0 <= morning (%d) <= afternoon (%d) <= evening (%d) <= 24",
			c.MorningStart, c.AfternoonStart, c.EveningStart,
		)
	}
	return nil
}

// PeriodOf buckets a start time
func (c Config) PeriodOf(t TimeOfDay) Period {
	switch {
	case t.Hour < c.MorningStart:
		return Early
	case t.Hour < c.AfternoonStart:
		return Morning
	case t.Hour < c.EveningStart:
		return Afternoon
	default:
		return Evening
	}
}

// Classified is an entry placed relative to a reference instant
type Classified struct {
	Entry
	Status  Status    `json:"status"`
	Period  Period    `json:"period"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	// only set for Ongoing
	Remaining time.Duration `json:"-"`
	// only set for Upcoming
	UntilStart time.Duration `json:"-"`
}

func (c Classified) MarshalJSON() ([]byte, error) {
	type classified Classified
	out := struct {
		classified
		RemainingSeconds  *int64 `json:"remaining_seconds,omitempty"`
		Remaining         string `json:"remaining,omitempty"`
		UntilStartSeconds *int64 `json:"until_start_seconds,omitempty"`
		UntilStart        string `json:"until_start,omitempty"`
	}{classified: classified(c)}
	switch c.Status {
	case Ongoing:
		secs := int64(c.Remaining / time.Second)
		out.RemainingSeconds = &secs
		out.Remaining = FormatDuration(c.Remaining)
	case Upcoming:
		secs := int64(c.UntilStart / time.Second)
		out.UntilStartSeconds = &secs
		out.UntilStart = FormatDuration(c.UntilStart)
	}
	return json.Marshal(out)
}

type Result struct {
	Ongoing  []Classified `json:"ongoing"`
	Upcoming []Classified `json:"upcoming"`
	// empty unless the classifier keeps ended entries
	Ended  []Classified `json:"ended"`
	Errors []error      `json:"-"`
}

type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{cfg: cfg}, nil
}

func (c *Classifier) Config() Config {
	return c.cfg
}

var defaultClassifier = &Classifier{cfg: DefaultConfig()}

// Classify uses the default configuration
func Classify(entries []Entry, weekday Weekday, now time.Time) Result {
	return defaultClassifier.Classify(entries, weekday, now)
}

// Classify partitions the entries held on weekday into ongoing, upcoming and
// ended relative to now. Entry times are placed on now's civil date in now's
// location. Invalid entries are reported in Result.Errors and skipped.
func (c *Classifier) Classify(entries []Entry, weekday Weekday, now time.Time) Result {
	result := Result{
		Ongoing:  []Classified{},
		Upcoming: []Classified{},
		Ended:    []Classified{},
	}
	for i, entry := range entries {
		if entry.Weekday != weekday {
			continue
		}
		if err := entry.Validate(); err != nil {
			result.Errors = append(result.Errors, &RowError{Index: i, Item: "entry", Code: entry.Code, Err: err})
			continue
		}

		classified := c.classifyEntry(entry, now)
		switch classified.Status {
		case Ongoing:
			result.Ongoing = append(result.Ongoing, classified)
		case Upcoming:
			result.Upcoming = append(result.Upcoming, classified)
		case Ended:
			if c.cfg.ShowEnded {
				result.Ended = append(result.Ended, classified)
			}
		}
	}

	slices.SortFunc(result.Ongoing, byInstant(func(e Classified) time.Time { return e.EndAt }))
	slices.SortFunc(result.Upcoming, byInstant(func(e Classified) time.Time { return e.StartAt }))
	slices.SortFunc(result.Ended, byInstant(func(e Classified) time.Time { return e.EndAt }))
	return result
}

func (c *Classifier) classifyEntry(entry Entry, now time.Time) Classified {
	classified := Classified{
		Entry:   entry,
		Period:  c.cfg.PeriodOf(entry.Start),
		StartAt: entry.Start.On(now),
		EndAt:   entry.End.On(now),
	}
	switch {
	case now.Before(classified.StartAt):
		classified.Status = Upcoming
		classified.UntilStart = mustNotBeNegative(classified.StartAt.Sub(now), entry)
	case now.Before(classified.EndAt):
		classified.Status = Ongoing
		classified.Remaining = mustNotBeNegative(classified.EndAt.Sub(now), entry)
	default:
		classified.Status = Ended
	}
	return classified
}

// the status checks guarantee a non negative duration, anything else is a bug
func mustNotBeNegative(d time.Duration, entry Entry) time.Duration {
	if d < 0 {
		panic(fmt.Sprintf("schedule: negative duration %s for %s (%s-%s)", d, entry.Code, entry.Start, entry.End))
	}
	return d
}

// orders by the instant first then by code. The remaining fields only break
// ties so the output never depends on the input order.
func byInstant(instant func(Classified) time.Time) func(a, b Classified) int {
	return func(a, b Classified) int {
		if c := instant(a).Compare(instant(b)); c != 0 {
			return c
		}
		return cmp.Or(
			strings.Compare(a.Code, b.Code),
			strings.Compare(a.Section, b.Section),
			strings.Compare(a.Room, b.Room),
			strings.Compare(a.Name, b.Name),
			a.StartAt.Compare(b.StartAt),
			a.EndAt.Compare(b.EndAt),
		)
	}
}

type PeriodGroup struct {
	Period  Period       `json:"period"`
	Entries []Classified `json:"entries"`
}

// GroupByPeriod partitions an already sorted list by period, keeping the order
// inside each bucket. Empty buckets are left out.
func GroupByPeriod(list []Classified) []PeriodGroup {
	periods := []Period{Early, Morning, Afternoon, Evening}
	groups := make([]PeriodGroup, 0, len(periods))
	for _, period := range periods {
		var bucket []Classified
		for _, entry := range list {
			if entry.Period == period {
				bucket = append(bucket, entry)
			}
		}
		if len(bucket) > 0 {
			groups = append(groups, PeriodGroup{Period: period, Entries: bucket})
		}
	}
	return groups
}

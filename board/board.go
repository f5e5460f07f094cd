package board

import (
	"context"
	"log/slog"
	"time"

	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/data/source"
	"github.com/Pjt727/classboard/schedule"
)

// Recorder is implemented by metrics.Recorder
type Recorder interface {
	RecordCycle(source string, took time.Duration, err error)
	RecordRowErrors(errs []error)
	RecordResult(result schedule.Result)
	SetSubscribers(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordCycle(string, time.Duration, error) {}
func (nopRecorder) RecordRowErrors([]error)                  {}
func (nopRecorder) RecordResult(schedule.Result)             {}
func (nopRecorder) SetSubscribers(int)                       {}

// Snapshot is everything one render cycle produced. It is never stored,
// every cycle builds a new one.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Weekday     schedule.Weekday `json:"weekday"`
	Timezone    string           `json:"timezone"`
	schedule.Result
	ShowEnded  bool     `json:"show_ended"`
	EntryCount int      `json:"entry_count"`
	Warnings   []string `json:"warnings"`
	// set when the source itself failed, the groups are then empty
	SourceError string `json:"source_error,omitempty"`
}

func (s Snapshot) Failed() bool {
	return s.SourceError != ""
}

type Board struct {
	source     source.Source
	classifier *schedule.Classifier
	clock      schedule.Clock
	recorder   Recorder
	logger     *slog.Logger
}

type Option func(*Board)

func WithRecorder(r Recorder) Option {
	return func(b *Board) {
		if r != nil {
			b.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

func New(src source.Source, classifier *schedule.Classifier, clock schedule.Clock, opts ...Option) *Board {
	b := &Board{
		source:     src,
		classifier: classifier,
		clock:      clock,
		recorder:   nopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Now() time.Time {
	return b.clock.Now()
}

func (b *Board) Recorder() Recorder {
	return b.recorder
}

// Snapshot runs a render cycle against the board's clock
func (b *Board) Snapshot(ctx context.Context) Snapshot {
	return b.SnapshotAt(ctx, b.clock.Now())
}

// SnapshotAt runs a render cycle for the reference instant now. A failing
// source produces an empty snapshot describing the failure instead of an error
// so the dashboard can still render its fallback state.
func (b *Board) SnapshotAt(ctx context.Context, now time.Time) Snapshot {
	started := time.Now()
	snap := Snapshot{
		GeneratedAt: now,
		Weekday:     schedule.WeekdayOf(now),
		Timezone:    now.Location().String(),
		Result: schedule.Result{
			Ongoing:  []schedule.Classified{},
			Upcoming: []schedule.Classified{},
			Ended:    []schedule.Classified{},
		},
		ShowEnded: b.classifier.Config().ShowEnded,
		Warnings:  []string{},
	}
	logger := b.logger.With("source", b.source.Name(), "weekday", snap.Weekday.String())

	rows, err := b.source.Rows(ctx)
	if err != nil {
		logger.Log(ctx, logginghelpers.LevelBrokenProcess, "could not load schedule", "err", err)
		snap.SourceError = "the schedule could not be loaded"
		b.recorder.RecordCycle(b.source.Name(), time.Since(started), err)
		return snap
	}

	entries, rowErrs := schedule.LoadRows(rows)
	result := b.classifier.Classify(entries, snap.Weekday, now)
	result.Errors = append(rowErrs, result.Errors...)
	for _, rowErr := range result.Errors {
		logger.Warn("skipped schedule row", "err", rowErr)
		snap.Warnings = append(snap.Warnings, rowErr.Error())
	}
	snap.Result = result
	snap.EntryCount = len(entries)

	logger.Debug("classified schedule",
		"entries", len(entries),
		"ongoing", len(result.Ongoing),
		"upcoming", len(result.Upcoming),
		"row_errors", len(result.Errors),
	)
	b.recorder.RecordRowErrors(result.Errors)
	b.recorder.RecordResult(result)
	b.recorder.RecordCycle(b.source.Name(), time.Since(started), nil)
	return snap
}

// Entries loads every valid entry regardless of weekday
func (b *Board) Entries(ctx context.Context) ([]schedule.Entry, []error, error) {
	rows, err := b.source.Rows(ctx)
	if err != nil {
		return nil, nil, err
	}
	entries, rowErrs := schedule.LoadRows(rows)
	return entries, rowErrs, nil
}

package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Pjt727/classboard/schedule"
)

// Recorder exports what each render cycle did
type Recorder struct {
	cycles      *prometheus.CounterVec
	duration    prometheus.Histogram
	rowErrors   *prometheus.CounterVec
	classified  *prometheus.GaugeVec
	subscribers prometheus.Gauge
}

// NewRecorder registers the board metrics on reg, the default registerer
// when nil. Collectors that are already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classboard_cycles_total",
		Help: "Render cycles by source and outcome",
	}, []string{"source", "outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "classboard_cycle_duration_seconds",
		Help:    "Time spent loading and classifying in one cycle",
		Buckets: prometheus.DefBuckets,
	})
	rowErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classboard_row_errors_total",
		Help: "Rows rejected while loading or classifying",
	}, []string{"kind"})
	classified := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "classboard_classified_entries",
		Help: "Entries in each group after the latest cycle",
	}, []string{"status"})
	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "classboard_feed_subscribers",
		Help: "Open websocket feed connections",
	})

	var err error
	if cycles, err = register(reg, cycles); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if rowErrors, err = register(reg, rowErrors); err != nil {
		return nil, err
	}
	if classified, err = register(reg, classified); err != nil {
		return nil, err
	}
	if subscribers, err = register(reg, subscribers); err != nil {
		return nil, err
	}
	return &Recorder{
		cycles:      cycles,
		duration:    duration,
		rowErrors:   rowErrors,
		classified:  classified,
		subscribers: subscribers,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *Recorder) RecordCycle(source string, took time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.cycles.WithLabelValues(source, outcome).Inc()
	r.duration.Observe(took.Seconds())
}

func (r *Recorder) RecordRowErrors(errs []error) {
	for _, err := range errs {
		r.rowErrors.WithLabelValues(errorKind(err)).Inc()
	}
}

func (r *Recorder) RecordResult(result schedule.Result) {
	r.classified.WithLabelValues(schedule.Ongoing.String()).Set(float64(len(result.Ongoing)))
	r.classified.WithLabelValues(schedule.Upcoming.String()).Set(float64(len(result.Upcoming)))
	r.classified.WithLabelValues(schedule.Ended.String()).Set(float64(len(result.Ended)))
}

func (r *Recorder) SetSubscribers(n int) {
	r.subscribers.Set(float64(n))
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, schedule.ErrMalformedEntry):
		return "malformed_entry"
	case errors.Is(err, schedule.ErrUnknownWeekday):
		return "unknown_weekday"
	case errors.Is(err, schedule.ErrMissingField):
		return "missing_field"
	case errors.Is(err, schedule.ErrInvalidTime):
		return "invalid_time"
	}
	return "other"
}

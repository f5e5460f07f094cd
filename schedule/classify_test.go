package schedule_test

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Pjt727/classboard/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

// 2024-09-02 is a monday
func monday(t *testing.T, hour, minute int) time.Time {
	return time.Date(2024, time.September, 2, hour, minute, 0, 0, saoPaulo(t))
}

func entry(code string, weekday schedule.Weekday, start, end string) schedule.Entry {
	startTime, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	endTime, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return schedule.Entry{
		Code:    code,
		Name:    "Course " + code,
		Section: "A",
		Room:    "CB01",
		Weekday: weekday,
		Start:   startTime,
		End:     endTime,
	}
}

func codes(list []schedule.Classified) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Code
	}
	return out
}

func TestOngoingDuringClass(t *testing.T) {
	result := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Monday, "08:00", "10:00")},
		schedule.Monday,
		monday(t, 9, 0),
	)
	require.Len(t, result.Ongoing, 1)
	assert.Empty(t, result.Upcoming)
	assert.Empty(t, result.Errors)

	got := result.Ongoing[0]
	assert.Equal(t, schedule.Ongoing, got.Status)
	assert.Equal(t, time.Hour, got.Remaining)
	assert.Zero(t, got.UntilStart)
	assert.Equal(t, schedule.Morning, got.Period)
}

func TestUpcomingBeforeClass(t *testing.T) {
	result := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Monday, "08:00", "10:00")},
		schedule.Monday,
		monday(t, 7, 30),
	)
	require.Len(t, result.Upcoming, 1)
	assert.Empty(t, result.Ongoing)

	got := result.Upcoming[0]
	assert.Equal(t, schedule.Upcoming, got.Status)
	assert.Equal(t, 30*time.Minute, got.UntilStart)
	assert.Zero(t, got.Remaining)
}

func TestEndBoundaryIsEnded(t *testing.T) {
	result := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Monday, "08:00", "10:00")},
		schedule.Monday,
		monday(t, 10, 0),
	)
	assert.Empty(t, result.Ongoing)
	assert.Empty(t, result.Upcoming)
	assert.Empty(t, result.Ended)
}

func TestStartBoundaryIsOngoing(t *testing.T) {
	result := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Monday, "08:00", "10:00")},
		schedule.Monday,
		monday(t, 8, 0),
	)
	require.Len(t, result.Ongoing, 1)
	assert.Equal(t, 2*time.Hour, result.Ongoing[0].Remaining)
}

func TestMalformedEntryDoesNotStopOthers(t *testing.T) {
	entries := []schedule.Entry{
		entry("BAD01", schedule.Monday, "10:00", "09:00"),
		entry("MA111", schedule.Monday, "08:00", "10:00"),
	}
	result := schedule.Classify(entries, schedule.Monday, monday(t, 9, 0))

	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0], schedule.ErrMalformedEntry))
	var rowErr *schedule.RowError
	require.True(t, errors.As(result.Errors[0], &rowErr))
	assert.Equal(t, "BAD01", rowErr.Code)
	assert.Equal(t, 0, rowErr.Index)
	assert.True(t, strings.HasPrefix(rowErr.Error(), "entry 0 (BAD01): "), rowErr.Error())

	assert.Equal(t, []string{"MA111"}, codes(result.Ongoing))
}

func TestOngoingSortedBySoonestEnd(t *testing.T) {
	entries := []schedule.Entry{
		entry("BZ200", schedule.Monday, "09:00", "10:30"),
		entry("QG100", schedule.Monday, "08:00", "10:00"),
	}
	result := schedule.Classify(entries, schedule.Monday, monday(t, 9, 15))
	assert.Equal(t, []string{"QG100", "BZ200"}, codes(result.Ongoing))
}

func TestTiesBrokenByCode(t *testing.T) {
	entries := []schedule.Entry{
		entry("MC102", schedule.Monday, "14:00", "16:00"),
		entry("MA111", schedule.Monday, "14:00", "16:00"),
		entry("BT001", schedule.Monday, "13:00", "16:00"),
		entry("ZZ999", schedule.Monday, "13:00", "15:00"),
	}
	result := schedule.Classify(entries, schedule.Monday, monday(t, 12, 0))
	assert.Equal(t, []string{"BT001", "ZZ999", "MA111", "MC102"}, codes(result.Upcoming))

	result = schedule.Classify(entries, schedule.Monday, monday(t, 14, 30))
	assert.Equal(t, []string{"ZZ999", "BT001", "MA111", "MC102"}, codes(result.Ongoing))
}

func TestOutputIndependentOfInputOrder(t *testing.T) {
	entries := []schedule.Entry{
		entry("MA111", schedule.Monday, "08:00", "10:00"),
		entry("MA111", schedule.Monday, "08:00", "10:00"),
		entry("F 128", schedule.Monday, "08:00", "12:00"),
		entry("QG100", schedule.Monday, "19:00", "21:00"),
		entry("BZ200", schedule.Monday, "14:00", "16:00"),
	}
	entries[1].Section = "B"
	reversed := make([]schedule.Entry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}

	now := monday(t, 9, 0)
	first := schedule.Classify(entries, schedule.Monday, now)
	second := schedule.Classify(reversed, schedule.Monday, now)
	again := schedule.Classify(entries, schedule.Monday, now)

	assert.Equal(t, first.Ongoing, second.Ongoing)
	assert.Equal(t, first.Upcoming, second.Upcoming)
	assert.Equal(t, first, again)
	assert.Equal(t, "A", first.Ongoing[0].Section)
	assert.Equal(t, "B", first.Ongoing[1].Section)
}

func TestOtherWeekdaysFiltered(t *testing.T) {
	entries := []schedule.Entry{
		entry("MA111", schedule.Tuesday, "08:00", "10:00"),
		entry("MA141", schedule.Monday, "08:00", "10:00"),
	}
	result := schedule.Classify(entries, schedule.Monday, monday(t, 9, 0))
	assert.Equal(t, []string{"MA141"}, codes(result.Ongoing))
}

func TestShowEndedKeepsEnded(t *testing.T) {
	classifier, err := schedule.NewClassifier(schedule.Config{
		MorningStart:   0,
		AfternoonStart: 12,
		EveningStart:   18,
		ShowEnded:      true,
	})
	require.NoError(t, err)

	entries := []schedule.Entry{
		entry("BZ200", schedule.Monday, "07:00", "09:00"),
		entry("MA111", schedule.Monday, "08:00", "10:00"),
		entry("AA000", schedule.Monday, "06:00", "09:00"),
	}
	result := classifier.Classify(entries, schedule.Monday, monday(t, 11, 0))
	assert.Equal(t, []string{"AA000", "BZ200", "MA111"}, codes(result.Ended))
	for _, e := range result.Ended {
		assert.Equal(t, schedule.Ended, e.Status)
		assert.Zero(t, e.Remaining)
		assert.Zero(t, e.UntilStart)
	}
}

func TestDurationsNeverNegative(t *testing.T) {
	var entries []schedule.Entry
	for hour := 0; hour < 23; hour++ {
		start, _ := schedule.NewTimeOfDay(hour, 0)
		end, _ := schedule.NewTimeOfDay(hour+1, 30)
		entries = append(entries, schedule.Entry{Code: start.String(), Weekday: schedule.Monday, Start: start, End: end})
	}
	for minute := 0; minute < 24*60; minute += 17 {
		now := monday(t, 0, 0).Add(time.Duration(minute) * time.Minute)
		result := schedule.Classify(entries, schedule.Monday, now)
		for _, e := range result.Ongoing {
			assert.False(t, now.Before(e.StartAt))
			assert.True(t, now.Before(e.EndAt))
			assert.Equal(t, e.EndAt.Sub(now), e.Remaining)
			assert.GreaterOrEqual(t, e.Remaining, time.Duration(0))
		}
		for _, e := range result.Upcoming {
			assert.True(t, now.Before(e.StartAt))
			assert.Equal(t, e.StartAt.Sub(now), e.UntilStart)
			assert.Greater(t, e.UntilStart, time.Duration(0))
		}
	}
}

func TestCombinesInNowsLocation(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// clocks jump from 02:00 to 03:00 on this sunday
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, newYork)
	require.Equal(t, schedule.Sunday, schedule.WeekdayOf(now))

	result := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Sunday, "08:00", "10:00")},
		schedule.Sunday,
		now,
	)
	require.Len(t, result.Ongoing, 1)
	got := result.Ongoing[0]
	assert.Equal(t, time.Hour, got.Remaining)
	assert.Equal(t, newYork, got.StartAt.Location())
	assert.Equal(t, 8, got.StartAt.Hour())

	// the same instant expressed in UTC lands on a different civil time
	utcResult := schedule.Classify(
		[]schedule.Entry{entry("MA111", schedule.Sunday, "08:00", "10:00")},
		schedule.Sunday,
		now.UTC(),
	)
	assert.Empty(t, utcResult.Ongoing)
}

func TestPeriods(t *testing.T) {
	cfg := schedule.DefaultConfig()
	cases := []struct {
		start string
		want  schedule.Period
	}{
		{"00:00", schedule.Morning},
		{"06:59", schedule.Morning},
		{"11:59", schedule.Morning},
		{"12:00", schedule.Afternoon},
		{"17:59", schedule.Afternoon},
		{"18:00", schedule.Evening},
		{"23:00", schedule.Evening},
	}
	for _, c := range cases {
		start, err := schedule.ParseTimeOfDay(c.start)
		require.NoError(t, err)
		assert.Equal(t, c.want, cfg.PeriodOf(start), c.start)
	}

	cfg.MorningStart = 7
	early, _ := schedule.ParseTimeOfDay("06:59")
	seven, _ := schedule.ParseTimeOfDay("07:00")
	assert.Equal(t, schedule.Early, cfg.PeriodOf(early))
	assert.Equal(t, schedule.Morning, cfg.PeriodOf(seven))
}

func TestConfigValidate(t *testing.T) {
	_, err := schedule.NewClassifier(schedule.Config{MorningStart: 13, AfternoonStart: 12, EveningStart: 18})
	assert.Error(t, err)
	_, err = schedule.NewClassifier(schedule.Config{MorningStart: 0, AfternoonStart: 12, EveningStart: 25})
	assert.Error(t, err)
	_, err = schedule.NewClassifier(schedule.DefaultConfig())
	assert.NoError(t, err)
}

func TestGroupByPeriodKeepsOrder(t *testing.T) {
	entries := []schedule.Entry{
		entry("EV001", schedule.Monday, "19:00", "21:00"),
		entry("AF002", schedule.Monday, "14:00", "15:00"),
		entry("MO003", schedule.Monday, "10:00", "11:00"),
		entry("AF001", schedule.Monday, "13:00", "18:30"),
		entry("MO001", schedule.Monday, "08:00", "12:00"),
	}
	result := schedule.Classify(entries, schedule.Monday, monday(t, 6, 0))
	groups := schedule.GroupByPeriod(result.Upcoming)

	require.Len(t, groups, 3)
	assert.Equal(t, schedule.Morning, groups[0].Period)
	assert.Equal(t, []string{"MO001", "MO003"}, codes(groups[0].Entries))
	assert.Equal(t, schedule.Afternoon, groups[1].Period)
	assert.Equal(t, []string{"AF001", "AF002"}, codes(groups[1].Entries))
	assert.Equal(t, schedule.Evening, groups[2].Period)
	assert.Equal(t, []string{"EV001"}, codes(groups[2].Entries))

	assert.Empty(t, schedule.GroupByPeriod(nil))
}

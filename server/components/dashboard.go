package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/schedule"
)

type DashboardView struct {
	Title    string
	Snapshot board.Snapshot
}

var periodLabels = map[schedule.Period]string{
	schedule.Early:     "Early",
	schedule.Morning:   "Morning",
	schedule.Afternoon: "Afternoon",
	schedule.Evening:   "Evening",
}

func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		snap := view.Snapshot
		hw := &htmlWriter{w: w}

		hw.raw(`<header><h1>`)
		hw.text(view.Title)
		hw.raw(`</h1><p class="now">`)
		hw.text(fmt.Sprintf("%s | %s", snap.Weekday, snap.GeneratedAt.Format("15:04")))
		hw.raw(`</p></header>`)

		writeWarnings(hw, snap)

		writeGroup(hw, "Classes in progress", "No classes in progress.", snap.Ongoing, schedule.Ongoing)
		writeGroup(hw, "Next classes", "No more classes today.", snap.Upcoming, schedule.Upcoming)
		if snap.ShowEnded {
			writeGroup(hw, "Finished classes", "No classes have finished yet.", snap.Ended, schedule.Ended)
		}
		return hw.err
	})
}

func writeWarnings(hw *htmlWriter, snap board.Snapshot) {
	if snap.Failed() {
		hw.raw(`<div class="banner error" role="alert">`)
		hw.text(snap.SourceError)
		hw.raw(`</div>`)
		return
	}
	if len(snap.Warnings) == 0 {
		return
	}
	hw.raw(`<details class="banner warning" role="status"><summary>`)
	hw.text(fmt.Sprintf("%d schedule row(s) were skipped", len(snap.Warnings)))
	hw.raw(`</summary><ul>`)
	for _, warning := range snap.Warnings {
		hw.raw(`<li>`)
		hw.text(warning)
		hw.raw(`</li>`)
	}
	hw.raw(`</ul></details>`)
}

func writeGroup(hw *htmlWriter, title, empty string, list []schedule.Classified, status schedule.Status) {
	hw.raw(`<section class="` + status.String() + `"><h2>`)
	hw.text(title)
	hw.raw(`</h2>`)
	if len(list) == 0 {
		hw.raw(`<p class="empty">`)
		hw.text(empty)
		hw.raw(`</p></section>`)
		return
	}
	for _, group := range schedule.GroupByPeriod(list) {
		hw.raw(`<h3>`)
		hw.text(periodLabels[group.Period])
		hw.raw(`</h3>`)
		writeTable(hw, group.Entries, status)
	}
	hw.raw(`</section>`)
}

func writeTable(hw *htmlWriter, entries []schedule.Classified, status schedule.Status) {
	hw.raw(`<table><thead><tr><th>Code</th><th>Name</th><th>Section</th><th>Start</th><th>End</th><th>Room</th>`)
	switch status {
	case schedule.Ongoing:
		hw.raw(`<th>Ends in</th>`)
	case schedule.Upcoming:
		hw.raw(`<th>Starts in</th>`)
	}
	hw.raw(`</tr></thead><tbody>`)
	for _, entry := range entries {
		hw.raw(`<tr>`)
		for _, cell := range []string{
			entry.Code,
			entry.Name,
			entry.Section,
			entry.Start.String(),
			entry.End.String(),
			entry.Room,
		} {
			hw.raw(`<td>`)
			hw.text(cell)
			hw.raw(`</td>`)
		}
		switch status {
		case schedule.Ongoing:
			hw.raw(`<td class="countdown">`)
			hw.text(schedule.FormatDuration(entry.Remaining))
			hw.raw(`</td>`)
		case schedule.Upcoming:
			hw.raw(`<td class="countdown">`)
			hw.text(schedule.FormatDuration(entry.UntilStart))
			hw.raw(`</td>`)
		}
		hw.raw(`</tr>`)
	}
	hw.raw(`</tbody></table>`)
}

// Package board turns raw departures into the per-station data the display
// shows: for every configured station, each line and direction with its next
// few countdowns.
package board

import (
	"sort"
	"strings"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/wienerlinien"
)

// MaxCountdowns is the number of upcoming departures shown per line.
const MaxCountdowns = 3

// Station is one configured station: a display name plus the RBL stop
// identifiers that belong to it (typically one per direction).
type Station struct {
	Name string
	RBLs []int
}

// Line is one (line, direction) row on the board with up to MaxCountdowns
// minute values, ascending.
type Line struct {
	Name       string
	Towards    string
	Countdowns []int
}

// StationBoard is the aggregated view of one station. A station with no
// matching departures keeps an empty Lines slice so the renderer can still
// show its header.
type StationBoard struct {
	Station Station
	Lines   []Line
}

// Aggregate groups raw departures into station boards.
//
// Stations keep their configured order. Within a station, lines appear in
// first-seen order of the raw slice; departures of duplicate
// (line, direction) monitors (a station spans several RBLs) are merged
// case-insensitively. Countdowns are clamped to zero, sorted ascending with
// source order preserved on ties, and capped at MaxCountdowns. Lines that
// end up with no departures are dropped.
func Aggregate(stations []Station, raw []wienerlinien.Departure, now time.Time) []StationBoard {
	boards := make([]StationBoard, 0, len(stations))

	for _, st := range stations {
		rbls := make(map[int]bool, len(st.RBLs))
		for _, r := range st.RBLs {
			rbls[r] = true
		}

		index := make(map[string]int)
		var lines []Line

		for _, d := range raw {
			if !rbls[d.RBL] {
				continue
			}

			key := strings.ToUpper(d.Line) + "\x00" + strings.ToUpper(d.Towards)
			i, ok := index[key]
			if !ok {
				i = len(lines)
				index[key] = i
				lines = append(lines, Line{Name: d.Line, Towards: d.Towards})
			}
			lines[i].Countdowns = append(lines[i].Countdowns, countdown(d, now))
		}

		kept := lines[:0]
		for _, ln := range lines {
			sort.SliceStable(ln.Countdowns, func(a, b int) bool {
				return ln.Countdowns[a] < ln.Countdowns[b]
			})
			if len(ln.Countdowns) > MaxCountdowns {
				ln.Countdowns = ln.Countdowns[:MaxCountdowns]
			}
			if len(ln.Countdowns) > 0 {
				kept = append(kept, ln)
			}
		}

		boards = append(boards, StationBoard{Station: st, Lines: kept})
	}

	return boards
}

// countdown returns the minutes until departure, never negative. The source
// value is preferred; otherwise it is derived from the planned time.
func countdown(d wienerlinien.Departure, now time.Time) int {
	m := d.Countdown
	if !d.HasCountdown {
		if d.Planned == nil {
			return 0
		}
		m = int(d.Planned.Sub(now).Minutes())
	}
	if m < 0 {
		return 0
	}
	return m
}

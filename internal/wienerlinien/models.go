package wienerlinien

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Departure is a single upcoming departure at one stop (RBL), flattened out
// of the monitor response.
type Departure struct {
	RBL      int    `json:"rbl"`
	Line     string `json:"line"`
	Towards  string `json:"towards"`
	Realtime bool   `json:"realtime"`

	// Countdown in minutes, valid when HasCountdown is true. Some monitors
	// only carry absolute times; Planned is set then and the countdown is
	// derived downstream.
	Countdown    int        `json:"countdown"`
	HasCountdown bool       `json:"hasCountdown"`
	Planned      *time.Time `json:"planned,omitempty"`
}

// monitorResponse mirrors the monitor endpoint's JSON envelope.
type monitorResponse struct {
	Data struct {
		Monitors []monitorEntry `json:"monitors"`
	} `json:"data"`
	Message struct {
		Value      string `json:"value"`
		ServerCode int    `json:"serverCode"`
	} `json:"message"`
}

type monitorEntry struct {
	LocationStop struct {
		Properties struct {
			Title      string `json:"title"`
			Attributes struct {
				RBL int `json:"rbl"`
			} `json:"attributes"`
		} `json:"properties"`
	} `json:"locationStop"`
	Lines []lineEntry `json:"lines"`
}

type lineEntry struct {
	Name       string `json:"name"`
	Towards    string `json:"towards"`
	Departures struct {
		Departure []departureEntry `json:"departure"`
	} `json:"departures"`
}

type departureEntry struct {
	DepartureTime struct {
		TimePlanned string `json:"timePlanned"`
		TimeReal    string `json:"timeReal"`
		Countdown   *int   `json:"countdown"`
	} `json:"departureTime"`
}

// departures flattens one monitor entry into the domain model. Line names
// are trimmed, directions trimmed and title-cased the way the board shows
// them ("OTTAKRING" becomes "Ottakring").
func (m *monitorEntry) departures(loc *time.Location) []Departure {
	rbl := m.LocationStop.Properties.Attributes.RBL

	// A cases.Caser is stateful; build one per call so concurrent fetches
	// never share it.
	titleCaser := cases.Title(language.German)

	var out []Departure
	for _, line := range m.Lines {
		name := strings.TrimSpace(line.Name)
		towards := titleCaser.String(strings.TrimSpace(line.Towards))

		for _, e := range line.Departures.Departure {
			dt := e.DepartureTime
			d := Departure{
				RBL:      rbl,
				Line:     name,
				Towards:  towards,
				Realtime: dt.TimeReal != "" && dt.TimePlanned != dt.TimeReal,
			}
			if dt.Countdown != nil {
				d.Countdown = *dt.Countdown
				d.HasCountdown = true
			} else if t, err := parseTime(dt.TimePlanned, loc); err == nil {
				d.Planned = &t
			} else {
				// Neither countdown nor a parseable time; nothing to show.
				continue
			}
			out = append(out, d)
		}
	}
	return out
}

// parseTime parses the API's local timestamps ("2006-01-02T15:04:05.000+0200").
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05.000-0700", s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", strings.TrimSuffix(s, "Z"), loc)
}

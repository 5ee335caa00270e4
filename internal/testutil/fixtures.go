package testutil

import (
	"fmt"
	"strconv"
	"strings"
)

// MonitorJSON builds a single monitor entry for the OGD realtime response.
// Countdowns become one departure each, realtime-flagged.
func MonitorJSON(rbl int, line, towards string, countdowns []int) string {
	deps := make([]string, 0, len(countdowns))
	for _, c := range countdowns {
		deps = append(deps, fmt.Sprintf(
			`{"departureTime":{"timePlanned":"2025-11-03T08:%02d:00.000+0100","timeReal":"2025-11-03T08:%02d:30.000+0100","countdown":%d}}`,
			10+c, 10+c, c))
	}
	return fmt.Sprintf(
		`{"locationStop":{"properties":{"title":"%s","attributes":{"rbl":%d}}},"lines":[{"name":"%s","towards":"%s","departures":{"departure":[%s]}}]}`,
		towards, rbl, line, towards, strings.Join(deps, ","))
}

// MonitorResponseJSON wraps monitor entries in the API envelope.
func MonitorResponseJSON(serverCode int, monitors ...string) string {
	return `{"data":{"monitors":[` + strings.Join(monitors, ",") +
		`]},"message":{"value":"OK","messageCode":1,"serverCode":` + strconv.Itoa(serverCode) + `}}`
}

// SampleMonitorResponse is a two-station scenario: Rochusgasse (RBL 4903,
// 4904) and Landstraße (RBL 146, 145), each with two U-Bahn directions.
var SampleMonitorResponse = MonitorResponseJSON(200,
	MonitorJSON(4903, "U3", "Ottakring", []int{3, 7, 12}),
	MonitorJSON(4904, "U3", "Simmering", []int{1, 5, 14}),
	MonitorJSON(146, "U3", "Ottakring", []int{2, 8, 15}),
	MonitorJSON(145, "U4", "Heiligenstadt", []int{1, 4, 9}),
)

// EmptyMonitorResponse is well-formed but has no service anywhere.
const EmptyMonitorResponse = `{"data":{"monitors":[]},"message":{"value":"OK","messageCode":1,"serverCode":311}}`

package wienerlinien

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/testutil"
)

func mustVienna(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Vienna")
	testutil.AssertNil(t, err)
	return loc
}

func TestMonitorEntry_Departures_TrimsAndTitleCases(t *testing.T) {
	raw := `{
		"locationStop": {"properties": {"attributes": {"rbl": 4903}}},
		"lines": [{
			"name": " U3 ",
			"towards": " OTTAKRING ",
			"departures": {"departure": [
				{"departureTime": {"timePlanned": "2025-11-03T08:13:00.000+0100", "timeReal": "2025-11-03T08:13:00.000+0100", "countdown": 3}}
			]}
		}]
	}`

	var m monitorEntry
	testutil.AssertNil(t, json.Unmarshal([]byte(raw), &m))

	deps := m.departures(mustVienna(t))
	testutil.AssertLen(t, deps, 1)
	testutil.AssertEqual(t, deps[0].Line, "U3")
	testutil.AssertEqual(t, deps[0].Towards, "Ottakring")
	testutil.AssertEqual(t, deps[0].Countdown, 3)
	testutil.AssertTrue(t, !deps[0].Realtime) // planned == real
}

func TestMonitorEntry_Departures_FallsBackToPlannedTime(t *testing.T) {
	raw := `{
		"locationStop": {"properties": {"attributes": {"rbl": 146}}},
		"lines": [{
			"name": "U4",
			"towards": "Heiligenstadt",
			"departures": {"departure": [
				{"departureTime": {"timePlanned": "2025-11-03T08:20:00.000+0100", "timeReal": ""}}
			]}
		}]
	}`

	var m monitorEntry
	testutil.AssertNil(t, json.Unmarshal([]byte(raw), &m))

	deps := m.departures(mustVienna(t))
	testutil.AssertLen(t, deps, 1)
	testutil.AssertTrue(t, !deps[0].HasCountdown)
	testutil.AssertTrue(t, deps[0].Planned != nil)
	testutil.AssertEqual(t, deps[0].Planned.Minute(), 20)
}

func TestMonitorEntry_Departures_DropsUnusable(t *testing.T) {
	raw := `{
		"locationStop": {"properties": {"attributes": {"rbl": 146}}},
		"lines": [{
			"name": "U4",
			"towards": "Heiligenstadt",
			"departures": {"departure": [
				{"departureTime": {"timePlanned": "not a time", "timeReal": ""}}
			]}
		}]
	}`

	var m monitorEntry
	testutil.AssertNil(t, json.Unmarshal([]byte(raw), &m))
	testutil.AssertLen(t, m.departures(mustVienna(t)), 0)
}

func TestParseTime(t *testing.T) {
	loc := mustVienna(t)

	tests := []struct {
		name  string
		input string
		hour  int
		ok    bool
	}{
		{"api format", "2025-11-03T08:13:00.000+0100", 8, true},
		{"bare local", "2025-11-03T08:13:00", 8, true},
		{"garbage", "gestern", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTime(tt.input, loc)
			if !tt.ok {
				testutil.AssertError(t, err)
				return
			}
			testutil.AssertNil(t, err)
			testutil.AssertEqual(t, got.In(loc).Hour(), tt.hour)
		})
	}
}

func TestServerCodeString(t *testing.T) {
	testutil.AssertEqual(t, serverCodeString(311, ""), "no departures found")
	testutil.AssertEqual(t, serverCodeString(316, ""), "invalid RBL number")
	testutil.AssertEqual(t, serverCodeString(320, ""), "service unavailable")
	testutil.AssertEqual(t, serverCodeString(999, "boom"), "boom")
	testutil.AssertEqual(t, serverCodeString(999, ""), "unknown error")
}

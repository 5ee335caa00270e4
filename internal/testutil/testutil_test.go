package testutil

import (
	"net/http"
	"strings"
	"testing"
)

func TestMockServer_RecordsRequests(t *testing.T) {
	ms := NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer ms.Close()

	if _, err := http.Get(ms.URL + "/monitor?rbl=4903"); err != nil {
		t.Fatalf("GET: %v", err)
	}

	AssertEqual(t, ms.RequestCount(), 1)
	AssertContains(t, ms.LastRequest().URL.RawQuery, "rbl=4903")
}

func TestMonitorJSON(t *testing.T) {
	m := MonitorJSON(4903, "U3", "Ottakring", []int{3, 7})
	AssertContains(t, m, `"rbl":4903`)
	AssertContains(t, m, `"name":"U3"`)
	AssertContains(t, m, `"countdown":3`)
	if got := strings.Count(m, "departureTime"); got != 2 {
		t.Errorf("got %d departures, want 2", got)
	}
}

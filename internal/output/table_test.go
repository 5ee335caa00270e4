package output

import (
	"strings"
	"testing"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
	"github.com/echtzeitinfo/echtzeitinfo/internal/testutil"
)

var tableNow = time.Date(2025, 11, 3, 8, 10, 0, 0, time.UTC)

func TestRenderBoards(t *testing.T) {
	boards := []board.StationBoard{
		{
			Station: board.Station{Name: "Rochusgasse", RBLs: []int{4903, 4904}},
			Lines: []board.Line{
				{Name: "U3", Towards: "Ottakring", Countdowns: []int{1, 3, 7}},
				{Name: "U3", Towards: "Simmering", Countdowns: []int{5}},
			},
		},
		{
			Station: board.Station{Name: "Landstraße", RBLs: []int{146}},
			Lines: []board.Line{
				{Name: "U4", Towards: "Heiligenstadt", Countdowns: []int{4, 9}},
			},
		},
	}

	var buf strings.Builder
	RenderBoards(&buf, boards, tableNow, TableOptions{Colors: NewColors(ColorNever)})
	out := buf.String()

	testutil.AssertContains(t, out, "● Rochusgasse")
	testutil.AssertContains(t, out, "● Landstraße")
	testutil.AssertContains(t, out, "U3")
	testutil.AssertContains(t, out, "Ottakring")
	testutil.AssertContains(t, out, "Simmering")
	testutil.AssertContains(t, out, "Heiligenstadt")
	testutil.AssertContains(t, out, "1'")
	testutil.AssertContains(t, out, "Aktualisiert 08:10")

	// Station order follows the input order.
	testutil.AssertTrue(t, strings.Index(out, "Rochusgasse") < strings.Index(out, "Landstraße"))
}

func TestRenderBoards_EmptyStation(t *testing.T) {
	boards := []board.StationBoard{
		{Station: board.Station{Name: "Rochusgasse", RBLs: []int{4903}}},
	}

	var buf strings.Builder
	RenderBoards(&buf, boards, tableNow, TableOptions{Colors: NewColors(ColorNever)})
	out := buf.String()

	testutil.AssertContains(t, out, "● Rochusgasse")
	testutil.AssertContains(t, out, "no departures")
}

func TestRenderBoards_TruncatesLongDestination(t *testing.T) {
	long := strings.Repeat("Überlang", 8) // 64 runes, multibyte
	boards := []board.StationBoard{
		{
			Station: board.Station{Name: "Rochusgasse", RBLs: []int{4903}},
			Lines: []board.Line{
				{Name: "74A", Towards: long, Countdowns: []int{2}},
			},
		},
	}

	var buf strings.Builder
	RenderBoards(&buf, boards, tableNow, TableOptions{Colors: NewColors(ColorNever)})
	out := buf.String()

	testutil.AssertContains(t, out, "…")
	testutil.AssertTrue(t, !strings.Contains(out, long))
}

func TestRenderBoards_NilColorsDefaultsToPlain(t *testing.T) {
	boards := []board.StationBoard{
		{Station: board.Station{Name: "Rochusgasse", RBLs: []int{4903}}},
	}

	var buf strings.Builder
	RenderBoards(&buf, boards, tableNow, TableOptions{})

	testutil.AssertContains(t, buf.String(), "Rochusgasse")
}

func TestFormatCountdown(t *testing.T) {
	c := NewColors(ColorNever)

	testutil.AssertEqual(t, c.FormatCountdown(0), "  0'")
	testutil.AssertEqual(t, c.FormatCountdown(7), "  7'")
	testutil.AssertEqual(t, c.FormatCountdown(12), " 12'")
}

func TestParseColorMode(t *testing.T) {
	testutil.AssertEqual(t, ParseColorMode("always"), ColorAlways)
	testutil.AssertEqual(t, ParseColorMode("never"), ColorNever)
	testutil.AssertEqual(t, ParseColorMode("auto"), ColorAuto)
	testutil.AssertEqual(t, ParseColorMode(""), ColorAuto)
}

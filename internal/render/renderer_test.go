package render

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
	"github.com/echtzeitinfo/echtzeitinfo/internal/testutil"
)

var renderNow = time.Date(2025, 11, 3, 8, 10, 0, 0, time.UTC)

func sampleBoards() []board.StationBoard {
	return []board.StationBoard{
		{
			Station: board.Station{Name: "Rochusgasse", RBLs: []int{4903, 4904}},
			Lines: []board.Line{
				{Name: "U3", Towards: "Ottakring", Countdowns: []int{3, 7, 12}},
				{Name: "U3", Towards: "Simmering", Countdowns: []int{1, 5, 14}},
			},
		},
		{
			Station: board.Station{Name: "Landstraße", RBLs: []int{146, 145}},
			Lines: []board.Line{
				{Name: "U3", Towards: "Ottakring", Countdowns: []int{2, 8, 15}},
				{Name: "U4", Towards: "Heiligenstadt", Countdowns: []int{1, 4, 9}},
			},
		},
	}
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(DefaultWidth, DefaultHeight)
	testutil.AssertNil(t, err)
	return r
}

func TestNew_RejectsBadCanvas(t *testing.T) {
	_, err := New(0, 480)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrInvariant))

	_, err = New(800, -1)
	testutil.AssertError(t, err)
}

func TestRender_FrameSize(t *testing.T) {
	r := newRenderer(t)
	frame, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, frame.Bounds().Dx(), DefaultWidth)
	testutil.AssertEqual(t, frame.Bounds().Dy(), DefaultHeight)
	testutil.AssertEqual(t, frame.GeneratedAt, renderNow)
}

func TestRender_Monochrome(t *testing.T) {
	r := newRenderer(t)
	frame, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)

	for _, p := range frame.Img.Pix {
		if p != 0 && p != 255 {
			t.Fatalf("pixel value %d is neither black nor white", p)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := newRenderer(t)

	a, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)
	b, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)

	testutil.AssertTrue(t, bytes.Equal(a.Img.Pix, b.Img.Pix))
}

func TestRender_SameMinuteSameBytes(t *testing.T) {
	r := newRenderer(t)

	a, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)
	b, err := r.Render(sampleBoards(), renderNow.Add(42*time.Second))
	testutil.AssertNil(t, err)

	// Only HH:MM is drawn, so seconds must not change the output.
	testutil.AssertTrue(t, bytes.Equal(a.Img.Pix, b.Img.Pix))
}

func TestRender_DataChangesBytes(t *testing.T) {
	r := newRenderer(t)

	a, err := r.Render(sampleBoards(), renderNow)
	testutil.AssertNil(t, err)

	changed := sampleBoards()
	changed[0].Lines[0].Countdowns = []int{4, 7, 12}
	b, err := r.Render(changed, renderNow)
	testutil.AssertNil(t, err)

	testutil.AssertTrue(t, !bytes.Equal(a.Img.Pix, b.Img.Pix))
}

func TestRender_EmptyStationShowsHeader(t *testing.T) {
	r := newRenderer(t)

	empty := []board.StationBoard{
		{Station: board.Station{Name: "Kardinal-Nagl-Platz", RBLs: []int{4905}}},
	}
	withStation, err := r.Render(empty, renderNow)
	testutil.AssertNil(t, err)
	blank, err := r.Render(nil, renderNow)
	testutil.AssertNil(t, err)

	// The header (bullet + name) must be visible even with no line rows.
	testutil.AssertTrue(t, !bytes.Equal(withStation.Img.Pix, blank.Img.Pix))
}

func TestRender_OverflowTruncatesDeterministically(t *testing.T) {
	r := newRenderer(t)

	many := make([]board.StationBoard, 0, 12)
	for i := 0; i < 12; i++ {
		many = append(many, board.StationBoard{
			Station: board.Station{Name: fmt.Sprintf("Station %02d", i)},
			Lines: []board.Line{
				{Name: "U3", Towards: "Ottakring", Countdowns: []int{1, 2, 3}},
				{Name: "U4", Towards: "Heiligenstadt", Countdowns: []int{2, 4, 6}},
				{Name: "71", Towards: "Börse", Countdowns: []int{5, 10, 15}},
			},
		})
	}

	// Eight station blocks already exceed 480px, so everything past the
	// fitting prefix must be invisible: more input, identical output.
	a, err := r.Render(many[:8], renderNow)
	testutil.AssertNil(t, err)
	b, err := r.Render(many, renderNow)
	testutil.AssertNil(t, err)

	testutil.AssertTrue(t, bytes.Equal(a.Img.Pix, b.Img.Pix))
}

func TestRender_NoBareHeaderForTruncatedStation(t *testing.T) {
	r := newRenderer(t)

	line := func(n string) board.Line {
		return board.Line{Name: n, Towards: "Ottakring", Countdowns: []int{1, 2, 3}}
	}

	// Sized so the last station's header would still fit above the footer
	// but its first line row would not. A header without rows must stay
	// reserved for stations with no service, so the station is dropped
	// entirely and the output matches a render without it.
	stations := []board.StationBoard{
		{Station: board.Station{Name: "Station 00"}, Lines: []board.Line{line("U3"), line("U4")}},
		{Station: board.Station{Name: "Station 01"}, Lines: []board.Line{line("U3")}},
		{Station: board.Station{Name: "Station 02"}, Lines: []board.Line{line("U3")}},
		{Station: board.Station{Name: "Station 03"}, Lines: []board.Line{line("U3")}},
		{Station: board.Station{Name: "Station 04"}, Lines: []board.Line{line("U3")}},
	}

	with, err := r.Render(stations, renderNow)
	testutil.AssertNil(t, err)
	without, err := r.Render(stations[:4], renderNow)
	testutil.AssertNil(t, err)

	testutil.AssertTrue(t, bytes.Equal(with.Img.Pix, without.Img.Pix))
}

func TestRender_RejectsNegativeCountdown(t *testing.T) {
	r := newRenderer(t)

	bad := sampleBoards()
	bad[1].Lines[1].Countdowns = []int{-1, 4, 9}

	_, err := r.Render(bad, renderNow)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrInvariant))
}

func TestRender_RejectsTooManyCountdowns(t *testing.T) {
	r := newRenderer(t)

	bad := sampleBoards()
	bad[0].Lines[0].Countdowns = []int{1, 2, 3, 4}

	_, err := r.Render(bad, renderNow)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrInvariant))
}

func TestRender_LongDirectionDoesNotPanic(t *testing.T) {
	r := newRenderer(t)

	boards := []board.StationBoard{
		{
			Station: board.Station{Name: "Rochusgasse"},
			Lines: []board.Line{
				{
					Name:       "U3",
					Towards:    "Eine außergewöhnlich lange Zielbezeichnung die niemals auf die Zeile passen würde und gekürzt werden muss",
					Countdowns: []int{1, 2, 3},
				},
			},
		},
	}

	frame, err := r.Render(boards, renderNow)
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, frame != nil)
}

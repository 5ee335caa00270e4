// Package render lays the aggregated departure boards out on a fixed-size
// monochrome canvas.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/fogleman/gg"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
)

// Default canvas size, matching the 7.5" panel.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// Layout constants, in pixels.
const (
	marginX       = 20
	marginY       = 15
	stationRowH   = 36
	lineRowH      = 34
	separatorGap  = 12
	countdownCols = board.MaxCountdowns
	countdownColW = 50
	footerH       = 50
)

const attribution = "Datenquelle: Stadt Wien — data.wien.gv.at"

// ErrInvariant reports data that should never reach the renderer, such as a
// negative countdown. The scheduler treats it like a failed fetch: the cycle
// is skipped, the loop keeps running.
var ErrInvariant = errors.New("render invariant violated")

// Frame is one fully composed board image: a black/white pixel buffer plus
// the instant it was generated for.
type Frame struct {
	Img         *image.Gray
	GeneratedAt time.Time
}

// Bounds returns the pixel bounds of the frame.
func (f *Frame) Bounds() image.Rectangle {
	return f.Img.Bounds()
}

// Renderer draws station boards onto a fixed canvas. It holds only immutable
// state (canvas size, font faces), so Render is a pure function of its
// arguments: identical boards and the same minute produce identical bytes.
type Renderer struct {
	width  int
	height int
	faces  *faces
}

// New creates a renderer for the given canvas size.
func New(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvariant, width, height)
	}
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &Renderer{width: width, height: height, faces: f}, nil
}

// Render composes one frame. Rows are stacked top to bottom with fixed
// heights; rows that would run into the footer are dropped, first N kept.
func (r *Renderer) Render(boards []board.StationBoard, now time.Time) (*Frame, error) {
	for _, b := range boards {
		for _, ln := range b.Lines {
			if len(ln.Countdowns) > board.MaxCountdowns {
				return nil, fmt.Errorf("%w: %d countdowns on line %s", ErrInvariant, len(ln.Countdowns), ln.Name)
			}
			for _, m := range ln.Countdowns {
				if m < 0 {
					return nil, fmt.Errorf("%w: negative countdown on line %s", ErrInvariant, ln.Name)
				}
			}
		}
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	maxY := r.height - footerH
	y := marginY

drawing:
	for i, b := range boards {
		// A station with departures is only drawn when its header and at
		// least one line row fit; a lone header is reserved for stations
		// that genuinely have no service.
		need := stationRowH
		if len(b.Lines) > 0 {
			need += lineRowH
		}
		if i > 0 {
			need += separatorGap
		}
		if y+need > maxY {
			break
		}

		if i > 0 {
			y += separatorGap / 2
			dc.DrawLine(marginX, float64(y), float64(r.width-marginX), float64(y))
			dc.SetLineWidth(1)
			dc.Stroke()
			y += separatorGap / 2
		}

		r.drawStationHeader(dc, y, b.Station.Name)
		y += stationRowH

		for _, ln := range b.Lines {
			if y+lineRowH > maxY {
				break drawing
			}
			r.drawLineRow(dc, y, ln)
			y += lineRowH
		}
	}

	r.drawFooter(dc, now)

	return &Frame{Img: toMonochrome(dc.Image()), GeneratedAt: now}, nil
}

func (r *Renderer) drawStationHeader(dc *gg.Context, y int, name string) {
	dc.DrawCircle(marginX+8, float64(y)+19, 7)
	dc.Fill()
	dc.SetFontFace(r.faces.station)
	dc.DrawString(name, marginX+26, float64(y)+27)
}

func (r *Renderer) drawLineRow(dc *gg.Context, y int, ln board.Line) {
	x := float64(marginX + 16) // indent under station name

	dc.SetFontFace(r.faces.line)
	dc.DrawString(ln.Name, x, float64(y)+23)
	nameW, _ := dc.MeasureString(ln.Name)
	xAfterLine := x + nameW + 12

	// Direction, ellipsis-truncated to leave room for the countdown columns.
	countdownStartX := float64(r.width - marginX - countdownCols*countdownColW)
	maxDirW := countdownStartX - xAfterLine - 10

	dc.SetFontFace(r.faces.direction)
	dc.DrawString(truncate(dc, ln.Towards, maxDirW), xAfterLine, float64(y)+23)

	dc.SetFontFace(r.faces.countdown)
	for j, m := range ln.Countdowns {
		text := fmt.Sprintf("%d'", m)
		w, _ := dc.MeasureString(text)
		colX := countdownStartX + float64(j)*countdownColW
		dc.DrawString(text, colX+countdownColW-w, float64(y)+23)
	}
}

func (r *Renderer) drawFooter(dc *gg.Context, now time.Time) {
	ts := "Aktualisiert " + now.Format("15:04")
	dc.SetFontFace(r.faces.timestamp)
	tsW, _ := dc.MeasureString(ts)
	dc.DrawString(ts, float64(r.width-marginX)-tsW, float64(r.height-24))

	dc.SetFontFace(r.faces.attribution)
	dc.DrawString(attribution, marginX, float64(r.height-10))
}

// truncate shortens s until it fits maxW with the current font face,
// appending an ellipsis when anything was cut.
func truncate(dc *gg.Context, s string, maxW float64) string {
	if w, _ := dc.MeasureString(s); w <= maxW {
		return s
	}
	runes := []rune(s)
	for len(runes) > 3 {
		runes = runes[:len(runes)-1]
		if w, _ := dc.MeasureString(string(runes) + "…"); w <= maxW {
			return string(runes) + "…"
		}
	}
	return string(runes)
}

// toMonochrome thresholds the anti-aliased canvas into a strict black/white
// buffer, the only pixel states the panel knows.
func toMonochrome(src image.Image) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(src.At(x, y)).(color.Gray)
			if g.Y < 128 {
				dst.SetGray(x, y, color.Gray{Y: 0})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return dst
}

package render

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// faces holds one font.Face per board element. The Go fonts are embedded so
// the binary needs no font files on the device.
type faces struct {
	station     font.Face
	line        font.Face
	direction   font.Face
	countdown   font.Face
	timestamp   font.Face
	attribution font.Face
}

func loadFaces() (*faces, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing bold font: %w", err)
	}

	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size})
	}

	return &faces{
		station:     face(bold, 28),
		line:        face(bold, 24),
		direction:   face(regular, 22),
		countdown:   face(bold, 24),
		timestamp:   face(regular, 16),
		attribution: face(regular, 12),
	}, nil
}

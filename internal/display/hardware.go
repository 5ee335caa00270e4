package display

import (
	"fmt"
	"image"
	"log/slog"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/echtzeitinfo/echtzeitinfo/internal/epd"
	"github.com/echtzeitinfo/echtzeitinfo/internal/render"
)

// Panel drives the physical 7.5" e-paper HAT. Construction is cheap; the
// hardware is only touched in Init so a bad SPI setup fails at startup, not
// when the struct is built.
type Panel struct {
	spiName string
	dev     *epd.Dev
	logger  *slog.Logger
}

// NewPanel creates a panel sink using the named SPI port ("" picks the first
// available bus).
func NewPanel(spiName string, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Panel{spiName: spiName, logger: logger}
}

// Init brings up periph, opens the SPI bus and performs the initial full
// clear. Failure here is fatal for the process; there is no point cycling
// without a working panel.
func (p *Panel) Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("%w: periph host init: %v", ErrHardwareFault, err)
	}

	bus, err := spireg.Open(p.spiName)
	if err != nil {
		return fmt.Errorf("%w: opening SPI port %q: %v", ErrHardwareFault, p.spiName, err)
	}

	dev, err := epd.NewHat(bus, &epd.EPD7in5V2)
	if err != nil {
		return fmt.Errorf("%w: initializing driver: %v", ErrHardwareFault, err)
	}
	p.dev = dev

	if err := p.dev.Init(epd.Full); err != nil {
		return fmt.Errorf("%w: panel init: %v", ErrHardwareFault, err)
	}
	if err := p.dev.Clear(); err != nil {
		return fmt.Errorf("%w: initial clear: %v", ErrHardwareFault, err)
	}

	p.logger.Info("e-paper display initialized", "panel", p.dev.String())
	return nil
}

// DisplayFull clears the panel and redraws everything with the full
// waveform. Slow and visibly flashes, but wipes accumulated ghosting.
func (p *Panel) DisplayFull(f *render.Frame) error {
	if err := p.dev.Init(epd.Full); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	if err := p.dev.Clear(); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	return p.draw(f)
}

// DisplayPartial redraws with the fast waveform, no clear.
func (p *Panel) DisplayPartial(f *render.Frame) error {
	if err := p.dev.Init(epd.Fast); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	return p.draw(f)
}

func (p *Panel) draw(f *render.Frame) error {
	if err := p.dev.Draw(p.dev.Bounds(), f.Img, image.Point{}); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	return nil
}

// Clear blanks the panel to white.
func (p *Panel) Clear() error {
	if p.dev == nil {
		return nil
	}
	if err := p.dev.Init(epd.Full); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	if err := p.dev.Clear(); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	return nil
}

// Sleep puts the panel into deep sleep. E-paper must not be left powered for
// long periods, so this runs on every shutdown.
func (p *Panel) Sleep() error {
	if p.dev == nil {
		return nil
	}
	if err := p.dev.Sleep(); err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	p.logger.Info("display entering sleep mode")
	return nil
}

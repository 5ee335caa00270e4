// Package epd drives the Waveshare 7.5" V2 e-paper panel (UC8179 controller)
// over SPI. The panel is the 800x480 black/white variant sold as the HAT for
// the Raspberry Pi.
package epd

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	panelSetting           byte = 0x00
	powerSetting           byte = 0x01
	powerOff               byte = 0x02
	powerOn                byte = 0x04
	boosterSoftStart       byte = 0x06
	deepSleep              byte = 0x07
	dataStartTransmission1 byte = 0x10
	displayRefresh         byte = 0x12
	dataStartTransmission2 byte = 0x13
	dualSPI                byte = 0x15
	vcomDataInterval       byte = 0x50
	tconSetting            byte = 0x60
	resolutionSetting      byte = 0x61
	getStatus              byte = 0x71
	cascadeSetting         byte = 0xE0
	forceTemperature       byte = 0xE5
)

// Mode selects the waveform used when the display is initialized. Full mode
// drives the complete clear-and-redraw waveform; Fast mode updates without
// the flash, at the cost of accumulating ghosting.
type Mode bool

const (
	// Full should redraw the complete display.
	Full Mode = false
	// Fast should update the display without a full clear.
	Fast Mode = true
)

// Opts defines the panel geometry.
type Opts struct {
	Width  int
	Height int
}

// EPD7in5V2 contains the display configuration for the 7.5" V2 panel.
var EPD7in5V2 = Opts{
	Width:  800,
	Height: 480,
}

// Dev is the handler used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIO

	opts *Opts
}

// errorHandler is a wrapper for error management.
type errorHandler struct {
	d   Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) sendCommand(c []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(c)
}

func (eh *errorHandler) sendData(d []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendData(d)
}

// New creates a new handler which is used to access the display.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIO, opts *Opts) (*Dev, error) {
	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	return &Dev{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		busy: busy,
		opts: opts,
	}, nil
}

// NewHat creates a new handler with the default Waveshare HAT wiring.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Init powers the panel up with the full-refresh or fast-refresh waveform.
func (d *Dev) Init(mode Mode) error {
	eh := errorHandler{d: *d}

	if err := d.reset(); err != nil {
		return err
	}

	if mode == Fast {
		eh.sendCommand([]byte{panelSetting})
		eh.sendData([]byte{0x1F})

		eh.sendCommand([]byte{vcomDataInterval})
		eh.sendData([]byte{0x10, 0x07})

		eh.sendCommand([]byte{powerOn})
		d.waitUntilIdle()

		eh.sendCommand([]byte{boosterSoftStart})
		eh.sendData([]byte{0x27, 0x27, 0x18, 0x17})

		eh.sendCommand([]byte{cascadeSetting})
		eh.sendData([]byte{0x02})
		eh.sendCommand([]byte{forceTemperature})
		eh.sendData([]byte{0x5A})
	} else {
		eh.sendCommand([]byte{powerSetting})
		eh.sendData([]byte{0x07, 0x07, 0x3F, 0x3F})

		eh.sendCommand([]byte{powerOn})
		d.waitUntilIdle()

		eh.sendCommand([]byte{panelSetting})
		eh.sendData([]byte{0x1F})

		eh.sendCommand([]byte{vcomDataInterval})
		eh.sendData([]byte{0x10, 0x07})

		eh.sendCommand([]byte{tconSetting})
		eh.sendData([]byte{0x22})
	}

	eh.sendCommand([]byte{resolutionSetting})
	eh.sendData([]byte{
		byte(d.opts.Width >> 8), byte(d.opts.Width),
		byte(d.opts.Height >> 8), byte(d.opts.Height),
	})

	eh.sendCommand([]byte{dualSPI})
	eh.sendData([]byte{0x00})

	return eh.err
}

// Clear blanks the display to white.
func (d *Dev) Clear() error {
	eh := errorHandler{d: *d}

	rowBytes := (d.opts.Width + 7) / 8
	white := make([]byte, rowBytes)
	black := make([]byte, rowBytes)
	for i := range white {
		white[i] = 0xFF
	}

	eh.sendCommand([]byte{dataStartTransmission1})
	for y := 0; y < d.opts.Height; y++ {
		eh.sendData(white)
	}
	eh.sendCommand([]byte{dataStartTransmission2})
	for y := 0; y < d.opts.Height; y++ {
		eh.sendData(black)
	}

	eh.sendCommand([]byte{displayRefresh})
	if eh.err != nil {
		return eh.err
	}
	time.Sleep(100 * time.Millisecond)
	d.waitUntilIdle()

	return nil
}

// Draw sends the image to the panel RAM and refreshes. Pixels are packed
// MSB-first, eight per byte, one bit set meaning black.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	eh := errorHandler{d: *d}

	rowBytes := (d.opts.Width + 7) / 8
	row := make([]byte, rowBytes)

	eh.sendCommand([]byte{dataStartTransmission2})
	for y := 0; y < d.opts.Height; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < d.opts.Width; x++ {
			p := src.At(srcPts.X+x, srcPts.Y+y)
			if image1bit.BitModel.Convert(p).(image1bit.Bit) == image1bit.Off {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
		eh.sendData(row)
	}

	eh.sendCommand([]byte{displayRefresh})
	if eh.err != nil {
		return eh.err
	}
	time.Sleep(100 * time.Millisecond)
	d.waitUntilIdle()

	return nil
}

// Sleep puts the panel into deep sleep. A hardware reset (Init) is required
// to wake it up again.
func (d *Dev) Sleep() error {
	eh := errorHandler{d: *d}

	eh.sendCommand([]byte{powerOff})
	if eh.err == nil {
		d.waitUntilIdle()
	}
	eh.sendCommand([]byte{deepSleep})
	eh.sendData([]byte{0xA5})

	return eh.err
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.Clear()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd7in5v2.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

func (d *Dev) sendData(c []byte) error {
	eh := errorHandler{d: *d}

	eh.err = d.dc.Out(gpio.High)
	if eh.err == nil {
		eh.err = d.cs.Out(gpio.Low)
	}
	if eh.err == nil {
		eh.err = d.c.Tx(c, nil)
	}
	if eh.err == nil {
		eh.err = d.cs.Out(gpio.High)
	}

	return eh.err
}

func (d *Dev) sendCommand(c []byte) error {
	eh := errorHandler{d: *d}

	eh.err = d.dc.Out(gpio.Low)
	if eh.err == nil {
		eh.err = d.cs.Out(gpio.Low)
	}
	if eh.err == nil {
		eh.err = d.c.Tx(c, nil)
	}
	if eh.err == nil {
		eh.err = d.cs.Out(gpio.High)
	}

	return eh.err
}

// reset performs a hardware reset of the panel.
func (d *Dev) reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

// waitUntilIdle polls the busy pin. The UC8179 holds it low while busy and
// only reports status after a getStatus command.
func (d *Dev) waitUntilIdle() {
	for {
		_ = d.sendCommand([]byte{getStatus})
		if d.busy.Read() == gpio.High {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

var _ display.Drawer = &Dev{}

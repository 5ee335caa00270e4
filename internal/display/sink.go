// Package display abstracts where rendered frames go: a physical e-paper
// panel or a directory of PNG files.
package display

import (
	"errors"

	"github.com/echtzeitinfo/echtzeitinfo/internal/render"
)

// ErrHardwareFault wraps failures of the panel driver. During Init it is
// fatal; during updates the scheduler logs it and tries again next cycle.
var ErrHardwareFault = errors.New("display hardware fault")

// Sink is the capability set the scheduler drives. Calls are never made
// concurrently; the cycle loop is strictly sequential.
type Sink interface {
	// Init prepares the sink. Must be called once before any update.
	Init() error

	// DisplayFull clears and redraws the whole panel. Slow, visibly
	// flashes, resets accumulated ghosting.
	DisplayFull(f *render.Frame) error

	// DisplayPartial updates only changed pixels. Fast and silent, but
	// ghosting accumulates over repeated use.
	DisplayPartial(f *render.Frame) error

	// Clear blanks the panel to white.
	Clear() error

	// Sleep puts the hardware into its low-power state.
	Sleep() error
}

package display

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/echtzeitinfo/echtzeitinfo/internal/render"
)

// Simulator writes frames as PNG files instead of driving a panel. It always
// succeeds from the scheduler's point of view, so the refresh state machine
// is exercised exactly as with hardware.
type Simulator struct {
	dir    string
	seq    int
	logger *slog.Logger
}

// NewSimulator creates a simulator writing into dir.
func NewSimulator(dir string, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{dir: dir, logger: logger}
}

// Init creates the output directory.
func (s *Simulator) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating output dir: %v", ErrHardwareFault, err)
	}
	s.logger.Info("simulate mode", "output_dir", s.dir)
	return nil
}

// DisplayFull saves the frame, tagged as a full refresh.
func (s *Simulator) DisplayFull(f *render.Frame) error {
	return s.save(f, "full")
}

// DisplayPartial saves the frame, tagged as a partial refresh.
func (s *Simulator) DisplayPartial(f *render.Frame) error {
	return s.save(f, "partial")
}

// save writes the frame under a monotonically numbered, timestamped name so
// a run never overwrites its own output.
func (s *Simulator) save(f *render.Frame, refresh string) error {
	name := fmt.Sprintf("board_%04d_%s.png", s.seq, f.GeneratedAt.Format("20060102_150405"))
	s.seq++

	path := filepath.Join(s.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHardwareFault, err)
	}
	defer func() { _ = file.Close() }()

	if err := png.Encode(file, f.Img); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrHardwareFault, name, err)
	}

	s.logger.Info("saved frame", "path", path, "refresh", refresh)
	return nil
}

// Clear only logs; there is no panel to blank.
func (s *Simulator) Clear() error {
	s.logger.Info("simulate: clear display")
	return nil
}

// Sleep only logs.
func (s *Simulator) Sleep() error {
	s.logger.Info("simulate: display sleep")
	return nil
}

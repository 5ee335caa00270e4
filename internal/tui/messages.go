package tui

import (
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
)

// boardsMsg carries a freshly aggregated set of station boards.
type boardsMsg struct {
	boards []board.StationBoard
	at     time.Time
}

// errMsg carries a failed fetch. The previous boards stay on screen.
type errMsg struct {
	err error
}

// tickMsg triggers the next scheduled refresh.
type tickMsg time.Time

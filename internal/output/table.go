package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
)

// TableOptions configures the board table output.
type TableOptions struct {
	Colors *Colors
}

// RenderBoards prints the aggregated departure boards as a terminal table,
// one block per station in configured order.
func RenderBoards(w io.Writer, boards []board.StationBoard, now time.Time, opts TableOptions) {
	c := opts.Colors
	if c == nil {
		c = NewColors(ColorNever)
	}

	for i, b := range boards {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "%s\n", c.Station("● %s", b.Station.Name))

		if len(b.Lines) == 0 {
			_, _ = fmt.Fprintf(w, "  %s\n", c.Muted("no departures"))
			continue
		}

		for _, ln := range b.Lines {
			countdowns := make([]string, 0, len(ln.Countdowns))
			for _, m := range ln.Countdowns {
				countdowns = append(countdowns, c.FormatCountdown(m))
			}

			dest := ln.Towards
			if r := []rune(dest); len(r) > 32 {
				dest = string(r[:31]) + "…"
			}

			_, _ = fmt.Fprintf(w, "  %s %s %s\n",
				c.Line("%-5s", ln.Name),
				c.Dest("%-32s", dest),
				strings.Join(countdowns, " "),
			)
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", c.Muted("Aktualisiert %s", now.Format("15:04")))
}

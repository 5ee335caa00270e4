package tui

import (
	"fmt"
	"strings"
)

// View renders the live board.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("echtzeitinfo — Abfahrten"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("fetch failed: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("showing last known departures"))
		b.WriteString("\n")
	}

	for _, sb := range m.boards {
		b.WriteString(stationStyle.Render("● " + sb.Station.Name))
		b.WriteString("\n")

		if len(sb.Lines) == 0 {
			b.WriteString(mutedStyle.Render("  no departures"))
			b.WriteString("\n")
			continue
		}

		for _, ln := range sb.Lines {
			countdowns := make([]string, 0, len(ln.Countdowns))
			for _, min := range ln.Countdowns {
				s := fmt.Sprintf("%d'", min)
				if min <= 2 {
					countdowns = append(countdowns, soonStyle.Render(s))
				} else {
					countdowns = append(countdowns, countdownStyle.Render(s))
				}
			}

			b.WriteString("  ")
			b.WriteString(lineStyle.Render(ln.Name))
			b.WriteString(destStyle.Render(ln.Towards))
			b.WriteString(strings.Join(countdowns, "  "))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	status := "Aktualisiert " + m.lastUpdate.Format("15:04:05")
	if m.lastUpdate.IsZero() {
		status = "loading"
	}
	if m.loading {
		status = m.spin.View() + "fetching…"
	}
	b.WriteString(mutedStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("r refresh · q quit"))
	b.WriteString("\n")

	return b.String()
}

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
)

// fetchCmd fetches and aggregates one round of departures.
func fetchCmd(client fetcher, stations []board.Station, rbls []int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		raw, err := client.FetchDepartures(ctx, rbls)
		if err != nil {
			return errMsg{err: err}
		}

		now := time.Now()
		return boardsMsg{boards: board.Aggregate(stations, raw, now), at: now}
	}
}

// tickCmd schedules the next refresh.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

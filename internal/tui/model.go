// Package tui shows the departure board live in the terminal, refreshing on
// the same interval the e-paper daemon would use.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
	"github.com/echtzeitinfo/echtzeitinfo/internal/wienerlinien"
)

const fetchTimeout = 10 * time.Second

// fetcher is the client capability the TUI needs.
type fetcher interface {
	FetchDepartures(ctx context.Context, rbls []int) ([]wienerlinien.Departure, error)
}

// Model is the root Bubble Tea model for the live board.
type Model struct {
	client   fetcher
	stations []board.Station
	rbls     []int
	interval time.Duration

	boards     []board.StationBoard
	lastUpdate time.Time
	err        error

	loading bool
	spin    spinner.Model
	width   int
	height  int
}

// New creates a live board model. The interval is clamped to the API's
// polling floor just like the daemon's scheduler.
func New(client fetcher, stations []board.Station, interval time.Duration) Model {
	if interval < wienerlinien.MinPollInterval {
		interval = wienerlinien.MinPollInterval
	}

	var rbls []int
	for _, st := range stations {
		rbls = append(rbls, st.RBLs...)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		client:   client,
		stations: stations,
		rbls:     rbls,
		interval: interval,
		loading:  true,
		spin:     sp,
	}
}

// Init kicks off the first fetch and arms the refresh tick. The tick chain
// is rearmed exclusively from the tickMsg handler, so exactly one chain
// exists for the lifetime of the program.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, fetchCmd(m.client, m.stations, m.rbls), tickCmd(m.interval))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.loading {
				m.loading = true
				return m, tea.Batch(m.spin.Tick, fetchCmd(m.client, m.stations, m.rbls))
			}
		}
		return m, nil

	case boardsMsg:
		m.boards = msg.boards
		m.lastUpdate = msg.at
		m.err = nil
		m.loading = false
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tickMsg:
		// Always rearm the chain. A fetch still in flight (manual refresh,
		// slow API) is not doubled up; the polling floor holds.
		next := tickCmd(m.interval)
		if m.loading {
			return m, next
		}
		m.loading = true
		return m, tea.Batch(next, m.spin.Tick, fetchCmd(m.client, m.stations, m.rbls))

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

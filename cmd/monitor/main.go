// Command monitor is an operator TUI spectator: it connects to a
// running arena's realtime channel and renders the current tick,
// status, spectator count and uptime, a leaderboard sorted by total
// kills with each snake's alive flag, and recent deaths. It shows no
// tick rate and no total count of alive snakes — the same "long-running process,
// give the operator a live terminal view" need executor/main.go's
// bubbletea dashboard solved for self-play training runs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"

	"github.com/brensch/snekarena/broadcast"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	aliveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	deadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	deathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tickMsg broadcast.Snapshot

type deathMsg struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type connLostMsg struct{ err error }

type model struct {
	conn        *websocket.Conn
	events      chan tea.Msg
	snapshot    broadcast.Snapshot
	recentDeath []string
	connected   bool
	startTime   time.Time
}

func initialModel(conn *websocket.Conn, events chan tea.Msg) model {
	return model{conn: conn, events: events, connected: true, startTime: time.Now()}
}

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

func (m model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		m.snapshot = broadcast.Snapshot(msg)
		return m, waitForEvent(m.events)
	case deathMsg:
		line := fmt.Sprintf("%s died: %s", msg.Name, msg.Reason)
		m.recentDeath = append([]string{line}, m.recentDeath...)
		if len(m.recentDeath) > 8 {
			m.recentDeath = m.recentDeath[:8]
		}
		return m, waitForEvent(m.events)
	case connLostMsg:
		m.connected = false
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	status := "connected"
	if !m.connected {
		status = "disconnected"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("snake arena monitor — %s", status)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "tick %d   status %s   spectators %d   uptime %s\n\n",
		m.snapshot.Tick, m.snapshot.Status, m.snapshot.SpectatorCount, time.Since(m.startTime).Round(time.Second))

	snakes := append([]broadcast.Snake(nil), m.snapshot.Snakes...)
	sort.Slice(snakes, func(i, j int) bool { return snakes[i].TotalKills > snakes[j].TotalKills })

	b.WriteString(headerStyle.Render("leaderboard"))
	b.WriteString("\n")
	for _, s := range snakes {
		style := deadStyle
		if s.Alive {
			style = aliveStyle
		}
		b.WriteString(style.Render(fmt.Sprintf(
			"  %-16s alive=%-5v len=%-4d kills=%-3d totalKills=%-4d lastErr=%s",
			s.Name, s.Alive, s.Length, s.Kills, s.TotalKills, s.LastAIError,
		)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("recent deaths"))
	b.WriteString("\n")
	for _, d := range m.recentDeath {
		b.WriteString(deathStyle.Render("  " + d))
		b.WriteString("\n")
	}

	b.WriteString("\npress q to quit\n")
	return b.String()
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "arena websocket address")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*addr, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", *addr, err)
	}
	defer conn.Close()

	events := make(chan tea.Msg, 32)
	go readLoop(conn, events)

	p := tea.NewProgram(initialModel(conn, events))
	if _, err := p.Run(); err != nil {
		log.Fatalf("tui: %v", err)
	}
}

func readLoop(conn *websocket.Conn, events chan tea.Msg) {
	for {
		_, body, err := conn.ReadMessage()
		if err != nil {
			events <- connLostMsg{err: err}
			return
		}
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			continue
		}
		switch env.Event {
		case "game:tick":
			var snap broadcast.Snapshot
			if json.Unmarshal(env.Data, &snap) == nil {
				events <- tickMsg(snap)
			}
		case "snake:died":
			var d deathMsg
			if json.Unmarshal(env.Data, &d) == nil {
				events <- d
			}
		}
	}
}

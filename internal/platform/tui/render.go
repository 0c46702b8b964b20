package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-reaction/internal/games/reaction"
)

// stateColors maps controller states to the LED panel color.
var stateColors = map[reaction.State]lipgloss.Color{
	reaction.StateIdle:    lipgloss.Color("245"),
	reaction.StateReady:   lipgloss.Color("11"),
	reaction.StateWaiting: lipgloss.Color("9"),
	reaction.StateRunning: lipgloss.Color("10"),
	reaction.StateResult:  lipgloss.Color("14"),
	reaction.StateAverage: lipgloss.Color("13"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 4).
			Width(panelWidth).
			Align(lipgloss.Center).
			Bold(true)

	roundStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(10).
			Align(lipgloss.Center)

	activeRoundStyle = roundStyle.
				BorderForeground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

const panelWidth = 30

// RenderCabinet draws the cabinet: title, LED panel, round strip and footer.
func RenderCabinet(snap reaction.Snapshot, width, height int, footer string) string {
	color, ok := stateColors[snap.State]
	if !ok {
		color = lipgloss.Color("7")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("R E A C T I O N   M A C H I N E"))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.BorderForeground(color).Foreground(color).Render(snap.Display))
	b.WriteString("\n\n")
	b.WriteString(renderRounds(snap))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(statusLine(snap)))
	b.WriteString("\n\n")
	b.WriteString(footer)

	if width <= 0 || height <= 0 {
		return b.String()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderRounds draws one box per round with its recorded time.
func renderRounds(snap reaction.Snapshot) string {
	boxes := make([]string, reaction.Rounds)
	for i := range boxes {
		label := fmt.Sprintf("Round %d", i+1)
		value := "-"
		if i < snap.Round && snap.Times[i] > 0 {
			value = reaction.FormatSeconds(snap.Times[i])
		}
		style := roundStyle
		if snap.Round == i+1 && snap.State != reaction.StateIdle {
			style = activeRoundStyle
		}
		boxes[i] = style.Render(label + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// statusLine describes what the player should do next.
func statusLine(snap reaction.Snapshot) string {
	switch snap.State {
	case reaction.StateIdle:
		if snap.Cheated {
			return "False start! Game over."
		}
		return "Insert a coin to play"
	case reaction.StateReady:
		return "Press GO when you are ready"
	case reaction.StateWaiting:
		return "Wait for the clock... don't jump the gun"
	case reaction.StateRunning:
		return "STOP!"
	case reaction.StateResult:
		if snap.TimedOut {
			return "Too slow"
		}
		return fmt.Sprintf("Round %d of %d", snap.Round, reaction.Rounds)
	case reaction.StateAverage:
		return "Final score"
	default:
		return ""
	}
}

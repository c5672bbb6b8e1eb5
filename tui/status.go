package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// current room, exits, inventory, score and moves.
func (m Model) renderStatusBar() string {
	st := m.game.State()

	roomName := st.CurrentRoom()
	var exits []string
	if room := m.game.World().Room(roomName); room != nil {
		roomName = room.Name
		exits = room.ExitDirections()
	}

	left := fmt.Sprintf(" %s | Exits: %s", roomName, strings.Join(exits, ","))
	tally := fmt.Sprintf("Score: %d/%d | Moves: %d ", st.Score(), st.MaxScore(), st.Moves())
	right := tally

	// Show inventory names if they fit, otherwise just the count.
	if n := st.Inventory.Len(); n > 0 {
		candidate := fmt.Sprintf("Inv: %s | %s", strings.Join(st.Inventory.Names(), ", "), tally)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | %s", n, tally)
		}
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

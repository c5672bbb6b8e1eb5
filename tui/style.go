package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/nathoo/custodian/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoomTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleItemNames = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSuccess = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// itemsPrefix opens the item listing in a room description.
const itemsPrefix = "You can see: "

// renderStyled applies the lipgloss style for an engine output style.
func renderStyled(text string, style types.Style) string {
	switch style {
	case types.StyleRoomTitle:
		return styleRoomTitle.Render(text)
	case types.StyleDescription:
		return styleRoomDesc.Render(text)
	case types.StyleItems:
		return styledItems(text)
	case types.StyleExits:
		return styleExits.Render(text)
	case types.StyleDialogue:
		return styleDialogue.Render(text)
	case types.StyleSuccess:
		return styleSuccess.Render(text)
	case types.StyleSystem:
		return styleSystem.Render(text)
	case types.StyleError:
		return styleError.Render(text)
	default:
		return text
	}
}

// styledItems renders "You can see: a, b." with the item names bold.
func styledItems(text string) string {
	if !strings.HasPrefix(text, itemsPrefix) {
		return styleRoomDesc.Render(text)
	}
	return styleRoomDesc.Render(itemsPrefix) + styleItemNames.Render(text[len(itemsPrefix):])
}

// styledSystemMsg renders a front-end message in gray with brackets.
func styledSystemMsg(text string) string {
	if strings.HasPrefix(text, "[trace]") {
		return styleTrace.Render(text)
	}
	return styleSystem.Render("[" + text + "]")
}

// wrap breaks text at word boundaries to fit width columns.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

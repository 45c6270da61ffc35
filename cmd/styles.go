package cmd

import (
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/pb33f/harview/motor"
	"github.com/pb33f/harview/motor/model"
)

var (
	RGBBlue   = lipgloss.Color("45")
	RGBPink   = lipgloss.Color("201")
	RGBRed    = lipgloss.Color("196")
	RGBYellow = lipgloss.Color("220")
	RGBGreen  = lipgloss.Color("46")
	RGBGrey   = lipgloss.Color("246")
	RGBPurple = lipgloss.Color("141")
	RGBOrange = lipgloss.Color("208")
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(RGBPink).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(RGBGrey)
	headerStyle  = lipgloss.NewStyle().Foreground(RGBBlue).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// phase colours follow the usual devtools palette
var phaseColors = map[model.Phase]lipgloss.Style{
	model.PhaseBlocked: lipgloss.NewStyle().Foreground(RGBGrey),
	model.PhaseDNS:     lipgloss.NewStyle().Foreground(RGBGreen),
	model.PhaseConnect: lipgloss.NewStyle().Foreground(RGBOrange),
	model.PhaseSSL:     lipgloss.NewStyle().Foreground(RGBPurple),
	model.PhaseSend:    lipgloss.NewStyle().Foreground(RGBBlue),
	model.PhaseWait:    lipgloss.NewStyle().Foreground(RGBGreen),
	model.PhaseReceive: lipgloss.NewStyle().Foreground(RGBBlue),
}

// statusStyle colours a status code by its class
func statusStyle(status int) lipgloss.Style {
	style := lipgloss.NewStyle()
	switch motor.StatusClass(status) {
	case "success":
		return style.Foreground(RGBGreen)
	case "info":
		return style.Foreground(RGBBlue)
	case "warning":
		return style.Foreground(RGBYellow)
	case "error":
		return style.Foreground(RGBRed)
	default:
		return style.Foreground(RGBGrey)
	}
}

func formatStatus(status int) string {
	if status == 0 {
		return statusStyle(status).Render("(failed)")
	}
	return statusStyle(status).Render(strconv.Itoa(status))
}

// newTable builds a bordered table with styled headers
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(RGBGrey)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

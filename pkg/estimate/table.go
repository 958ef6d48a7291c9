package estimate

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	tableTotalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderTable renders s as a terminal table. Quantity and money columns are
// right-aligned.
func RenderTable(s *Sheet) string {
	var rows [][]string
	var totals []int
	for _, sec := range s.Sections {
		for _, it := range sec.Items {
			rows = append(rows, itemRecord(it))
		}
		totals = append(totals, len(rows))
		rows = append(rows, []string{sec.Title + " " + TotalLabel, "", "", "", "", formatMoney(sec.Total)})
	}
	isTotal := make(map[int]bool, len(totals))
	for _, r := range totals {
		isTotal[r] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle.Padding(0, 1)
			}
			st := tableCellStyle
			if isTotal[row] {
				st = tableTotalStyle.Padding(0, 1)
			}
			if col == 2 || col >= 4 {
				st = st.Align(lipgloss.Right)
			}
			return st
		})
	return lipgloss.JoinVertical(lipgloss.Left, s.Heading(), t.Render())
}

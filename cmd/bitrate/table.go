package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/drakos74/bitrate/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 1, 0, 1).Align(lipgloss.Center)
	cellStyle = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
)

// render formats the classes as a table, one row per result.
func render(classes []model.Class) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("bitrate", "psize", "ncodes", "dist", "model")
	for i, class := range classes {
		for _, r := range class {
			t.Row(
				fmt.Sprintf("#%d %s", i+1, class.Label()),
				strconv.Itoa(r.PatternSize),
				strconv.Itoa(r.CodebookSize),
				strconv.FormatFloat(r.Distortion, 'g', 6, 64),
				r.Source,
			)
		}
	}
	return t.Render()
}

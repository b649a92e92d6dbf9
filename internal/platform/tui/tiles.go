package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tappy/internal/assets"
)

// TileTable renders the atlas regions as a static table.
func TileTable(atlas *assets.Atlas) string {
	columns := []table.Column{
		{Title: "Tile", Width: 14},
		{Title: "X", Width: 4},
		{Title: "Y", Width: 4},
		{Title: "W", Width: 4},
		{Title: "H", Width: 4},
		{Title: "Preview", Width: 26},
	}

	names := atlas.Sheet.Names()
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		t, err := atlas.Tile(name)
		if err != nil {
			continue
		}
		r := t.Region
		rows = append(rows, table.Row{
			name,
			fmt.Sprint(r.X), fmt.Sprint(r.Y), fmt.Sprint(r.W), fmt.Sprint(r.H),
			previewRow(atlas, name),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
		table.WithStyles(styles),
	)
	return t.View()
}

// previewRow returns the middle row of a tile as plain text.
func previewRow(atlas *assets.Atlas, name string) string {
	t, err := atlas.Tile(name)
	if err != nil {
		return ""
	}
	y := t.Region.Y + t.Region.H/2
	runes := make([]rune, 0, t.Region.W)
	for x := t.Region.X; x < t.Region.Right(); x++ {
		runes = append(runes, atlas.Image.At(x, y).Rune)
	}
	return string(runes)
}

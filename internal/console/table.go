package console

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/movietable"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	starStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#F4C430"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

const starsColumn = 2

var starRunes = map[domain.Star]string{
	domain.StarFull:  "★",
	domain.StarHalf:  "⯪",
	domain.StarEmpty: "☆",
}

// Stars renders a star display as five glyphs.
func Stars(d domain.StarDisplay) string {
	var b strings.Builder
	for _, slot := range d.Slots {
		b.WriteString(starRunes[slot])
	}
	return b.String()
}

// RenderTable draws the rows with 1-based numbers, as the edit and remove
// commands expect them.
func RenderTable(s movietable.State) string {
	if len(s.Rows) == 0 {
		return emptyStyle.Render("no movies yet")
	}
	rows := make([][]string, 0, len(s.Rows))
	for i, row := range s.Rows {
		rows = append(rows, []string{strconv.Itoa(i + 1), row.Title, Stars(s.Stars(i)), strconv.Itoa(row.Rating)})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Title", "Stars", "Rating").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == starsColumn:
				return starStyle
			default:
				return cellStyle
			}
		}).
		String()
}

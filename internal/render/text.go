// Package render draws a calendar controller as plain text.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/username/calgrid/internal/calendar"
)

const cellWidth = 5

// Legend explains the cell markers written by Text
const Legend = "[ ] selected  ( ) today  * holiday  - other month"

// Text writes the title, weekday labels and visible grid of c to w. Each
// cell is five columns wide: an opening marker, the day number, a closing
// marker and a flag.
func Text(w io.Writer, c *calendar.Controller) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, center(Title(c), cellWidth*7))

	var labels strings.Builder
	for _, wd := range c.WeekdayOrder() {
		fmt.Fprintf(&labels, " %2s  ", wd.String()[:2])
	}
	fmt.Fprintln(bw, strings.TrimRight(labels.String(), " "))

	cells := c.Cells()
	for start := 0; start < len(cells); start += 7 {
		end := start + 7
		if end > len(cells) {
			end = len(cells)
		}
		var row strings.Builder
		for _, cell := range cells[start:end] {
			row.WriteString(formatCell(cell))
		}
		fmt.Fprintln(bw, strings.TrimRight(row.String(), " "))
	}

	return bw.Flush()
}

// Title is the header line for the current mode
func Title(c *calendar.Controller) string {
	d := c.TitleDate()
	if c.DisplayMode() == calendar.ModeWeek {
		return d.Format("Mon, 2 January 2006")
	}
	return d.Format("January 2006")
}

func formatCell(cell calendar.Cell) string {
	left, right := ' ', ' '
	switch {
	case cell.Selected:
		left, right = '[', ']'
	case cell.Today:
		left, right = '(', ')'
	}

	flag := ' '
	switch {
	case cell.Holiday:
		flag = '*'
	case !cell.InCurrentPeriod:
		flag = '-'
	}

	return fmt.Sprintf("%c%2d%c%c", left, cell.Date.Day(), right, flag)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

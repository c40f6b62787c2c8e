package cli

import (
	"fmt"
	"math"
	"strings"

	"options-lab/internal/models"
)

const chartLabelWidth = 9

// RenderPayoffChart draws a payoff curve as text. The zero line is always
// part of the vertical range and the strike is marked with a dotted column.
func RenderPayoffChart(points []models.PayoffPoint, strike float64, width, height int) []string {
	if len(points) == 0 || width < 2 || height < 3 {
		return nil
	}

	minY, maxY := 0.0, 0.0
	for _, p := range points {
		minY = math.Min(minY, p.ProfitLoss)
		maxY = math.Max(maxY, p.ProfitLoss)
	}
	if maxY == minY {
		maxY++
		minY--
	}
	minX, maxX := points[0].StockPrice, points[len(points)-1].StockPrice

	row := func(v float64) int {
		return int(math.Round((maxY - v) / (maxY - minY) * float64(height-1)))
	}
	col := func(x float64) int {
		if maxX == minX {
			return 0
		}
		return int(math.Round((x - minX) / (maxX - minX) * float64(width-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}

	zeroRow := row(0)
	for c := range grid[zeroRow] {
		grid[zeroRow][c] = '-'
	}
	if strike >= minX && strike <= maxX {
		c := col(strike)
		for r := range grid {
			if r != zeroRow {
				grid[r][c] = ':'
			}
		}
	}
	for _, p := range points {
		grid[row(p.ProfitLoss)][col(p.StockPrice)] = '*'
	}

	lines := make([]string, 0, height+2)
	for r := range grid {
		label := ""
		switch r {
		case 0:
			label = FormatPrice(maxY)
		case zeroRow:
			label = "0"
		case height - 1:
			label = FormatPrice(minY)
		}
		lines = append(lines, fmt.Sprintf("%*s │%s", chartLabelWidth, label, string(grid[r])))
	}

	lines = append(lines, strings.Repeat(" ", chartLabelWidth+1)+"└"+strings.Repeat("─", width))
	left, right := FormatPrice(minX), FormatPrice(maxX)
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, strings.Repeat(" ", chartLabelWidth+2)+left+strings.Repeat(" ", gap)+right)

	return lines
}

package frontend

import (
	"math"
	"strings"
)

// Character classes for estimating rendered text width.
const (
	narrowRunes = "!ifjl,;.:-|\n\r\t\x00\x0B"
	wideRunes   = "wm—G@"
)

// textWidth estimates the rendered width of s in average characters.
func textWidth(s string) float64 {
	var w float64
	for _, r := range s {
		switch {
		case strings.ContainsRune(narrowRunes, r):
			w += 0.4
		case strings.ContainsRune(wideRunes, r):
			w += 1.3
		default:
			w++
		}
	}
	return math.Max(w, 1)
}

// columnStats summarizes the cell widths of one column.
type columnStats struct {
	avg  float64
	cv   float64 // coefficient of variation
	calc float64 // estimated width
}

func measureColumn(cells []string) columnStats {
	var (
		maxWidth float64
		sum      float64
		widths   = make([]float64, len(cells))
	)
	for i, c := range cells {
		w := textWidth(c)
		maxWidth = math.Max(maxWidth, w)
		sum += w
		widths[i] = w
	}
	if len(cells) == 0 {
		return columnStats{avg: 1, calc: 1}
	}
	n := float64(len(cells))
	avg := sum / n
	var variance float64
	for _, w := range widths {
		variance += (w - avg) * (w - avg)
	}
	sd := math.Sqrt(variance / n)
	cv := sd / avg
	sdmax := sd / maxWidth

	calc := avg
	if !((sdmax < 0.3 || cv == 1) && (cv == 0 || (cv > 0.6 && cv < 1.5))) {
		calc = avg + (maxWidth/avg)*2/math.Abs(1-cv)
		if calc > maxWidth {
			var tmp float64
			if cv > 1 && sd > 4.5 && sdmax > 0.2 {
				tmp = (maxWidth - avg) / 2
			}
			calc = maxWidth - tmp
		}
	}
	return columnStats{avg: avg, cv: cv, calc: calc}
}

// columnWidths distributes 100 percent over the columns according to the
// text they hold. No column gets less than a third of an even share.
// columns[i] lists the plain text of every cell of column i.
func columnWidths(columns [][]string) []float64 {
	if len(columns) == 0 {
		return nil
	}
	minPercentage := 100.0 / 3 / float64(len(columns))

	stats := make([]columnStats, len(columns))
	var total float64
	for i, cells := range columns {
		stats[i] = measureColumn(cells)
		total += stats[i].calc
	}
	percentages := make([]float64, len(columns))
	for i, s := range stats {
		percentages[i] = 100 / (total / s.calc)
	}

	for i := range stats {
		short := minPercentage - percentages[i]
		if short < 0 {
			continue
		}
		steal := -1
		lowest := math.MaxFloat64
		for j, s := range stats {
			distance := math.Abs(1 - s.cv)
			if distance < lowest && s.calc-short > s.avg && percentages[i]-minPercentage >= short {
				lowest = distance
				steal = j
			}
		}
		if steal < 0 {
			steal = widest(percentages)
		}
		percentages[steal] -= short
		percentages[i] = minPercentage
	}
	return percentages
}

// widest returns the index of the largest value, the last one on ties.
func widest(values []float64) int {
	idx := 0
	for i, v := range values {
		if v >= values[idx] {
			idx = i
		}
	}
	return idx
}

package ui

import (
	"math/rand"
	"strings"
)

// Matrix rain dimensions and density.
const (
	RainRows    = 20
	RainCols    = 40
	RainDensity = 0.1
)

// GlobeTitle is shown above the globe panel.
const GlobeTitle = "MAKE ML MAKE SENSE"

// Earth is the static globe drawn over the rain.
var Earth = strings.Join([]string{
	"            ++++++++++            ",
	"       ++++++++++++++++++++       ",
	"    ++++++++ +++  ++  +++ ++++    ",
	"  +++++++   +++   ++   +++   +++  ",
	" +++  ++    +++    ++    +++  ++  ",
	"++++++++++++++++++++++++++++++++++",
	"++   ++       ++      ++      ++  ",
	"++   ++       ++      ++      ++  ",
	"++++++++++++++++++++++++++++++++++",
	"++   ++       ++      ++      ++  ",
	"+++  ++      +++      ++     +++  ",
	"++++++++++++++++++++++++++++++++++",
	" +++  ++     +++     ++    +++    ",
	"  ++  +++   +++    ++    +++      ",
	"   ++++++++  +++   ++   ++++++    ",
	"       ++++++++++++++++++++       ",
	"            ++++++++++            ",
}, "\n")

// MatrixRain returns RainRows lines of RainCols cells, each cell '0' or '1'
// with probability RainDensity and blank otherwise.
func MatrixRain(r *rand.Rand) []string {
	rows := make([]string, RainRows)
	var sb strings.Builder
	for i := range rows {
		sb.Reset()
		for j := 0; j < RainCols; j++ {
			if r.Float64() < RainDensity {
				sb.WriteByte("01"[r.Intn(2)])
			} else {
				sb.WriteByte(' ')
			}
		}
		rows[i] = sb.String()
	}
	return rows
}

// Overlay draws earth over rain: non-space earth glyphs win.
func Overlay(rain []string, earth string) []string {
	lines := strings.Split(earth, "\n")
	out := make([]string, len(rain))
	top := (len(rain) - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	for i, row := range rain {
		cells := []byte(row)
		if li := i - top; li >= 0 && li < len(lines) {
			line := lines[li]
			left := (len(cells) - len(line)) / 2
			if left < 0 {
				left = 0
			}
			for j := 0; j < len(line) && left+j < len(cells); j++ {
				if line[j] != ' ' {
					cells[left+j] = line[j]
				}
			}
		}
		out[i] = string(cells)
	}
	return out
}

// RenderGlobe renders the globe panel body.
func RenderGlobe(s Styles, rain []string) string {
	var sb strings.Builder
	earthLines := strings.Split(Earth, "\n")
	top := (len(rain) - len(earthLines)) / 2
	merged := Overlay(rain, Earth)
	for i, row := range merged {
		if li := i - top; li >= 0 && li < len(earthLines) {
			sb.WriteString(s.Earth.Render(row))
		} else {
			sb.WriteString(s.Rain.Render(row))
		}
		if i < len(merged)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Package report renders pricing results for the terminal.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/san-kum/mcprice/internal/montecarlo"
)

// Summary is a pricing result ready for display.
type Summary struct {
	Scenario     string
	Params       map[string]float64
	Estimate     *montecarlo.Estimate
	Reference    float64
	HasReference bool
	Seed         uint64
}

// Places returns the number of decimals that keeps two significant digits
// of the confidence half-width.
func Places(halfWidth float64) int32 {
	if halfWidth <= 0 || math.IsNaN(halfWidth) || math.IsInf(halfWidth, 0) {
		return 6
	}
	p := int32(1 - math.Floor(math.Log10(halfWidth)))
	return max(2, min(p, 10))
}

// Round formats v with the given number of decimals.
func Round(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Rows returns the label/value pairs shown by Render.
func (s Summary) Rows() [][2]string {
	est := s.Estimate
	places := Places(est.HalfWidth)
	pct := decimal.NewFromFloat(est.Confidence * 100).Round(1).String()

	rows := [][2]string{
		{"replications", fmt.Sprint(est.N)},
		{"seed", fmt.Sprint(s.Seed)},
		{"price", Round(est.Mean, places)},
		{"std dev", Round(est.StdDev, places)},
		{"std error", Round(est.StdErr, places)},
		{pct + "% interval", fmt.Sprintf("[%s, %s]", Round(est.CILow, places), Round(est.CIHigh, places))},
	}
	if s.HasReference {
		status := "outside"
		if est.Contains(s.Reference) {
			status = "inside"
		}
		rows = append(rows,
			[2]string{"closed form", Round(s.Reference, places)},
			[2]string{"reference", status + " interval"},
		)
	}
	return rows
}

func (s Summary) Render() string {
	var b strings.Builder
	b.WriteString(Title.Render("mcprice · "+s.Scenario) + "\n")

	if len(s.Params) > 0 {
		names := make([]string, 0, len(s.Params))
		for name := range s.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + "=" + decimal.NewFromFloat(s.Params[name]).String()
		}
		b.WriteString(Subtle.Render(strings.Join(parts, "  ")) + "\n")
	}
	b.WriteString(Separator(40) + "\n")

	for _, row := range s.Rows() {
		value := Value.Render(row[1])
		switch row[1] {
		case "inside interval":
			value = Good.Render(row[1])
		case "outside interval":
			value = Warn.Render(row[1])
		}
		b.WriteString(fmt.Sprintf("%s %s\n", Label.Render(fmt.Sprintf("%-16s", row[0])), value))
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

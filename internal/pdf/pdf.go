package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/fairdraw/fairdraw/internal/anneal"
	"github.com/fairdraw/fairdraw/internal/config"
	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/schedule"
)

// Summary renders a printable recap of one run: headline numbers, the
// round-by-round schedule, and the per-team cost table.
func Summary(cfg *config.Config, result *anneal.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(cfg.Tournament.Name), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	writeStats(pdf, cfg, result)
	writeRounds(pdf, cfg, result)
	writeTeams(pdf, cfg, result)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStats(pdf *gofpdf.Fpdf, cfg *config.Config, result *anneal.Result) {
	valid := "yes"
	if !result.Valid {
		valid = "NO"
	}
	stats := []struct {
		label string
		value string
	}{
		{"Teams", fmt.Sprintf("%d", cfg.NumTeams())},
		{"Rounds", fmt.Sprintf("%d", len(result.Schedule))},
		{"Strategy", cfg.Strategy},
		{"Initial cost", fmt.Sprintf("%.1f", result.InitialCost)},
		{"Best cost", fmt.Sprintf("%.1f", result.Cost)},
		{"Improvement", fmt.Sprintf("%.1f%%", result.Improvement())},
		{"Schedule valid", valid},
	}

	for _, s := range stats {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, s.label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, s.value, "", 1, "", false, 0, "")
	}
	pdf.Ln(5)
}

func writeRounds(pdf *gofpdf.Fpdf, cfg *config.Config, result *anneal.Result) {
	names := cfg.TeamNames()
	grid := schedule.Grid(result.Schedule, cfg.NumTeams())
	hasBye := cfg.NumTeams()%2 != 0

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Schedule", "", 1, "", false, 0, "")

	matchWidth := 172.0
	if hasBye {
		matchWidth -= 35
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(18, 8, "Round", "1", 0, "C", false, 0, "")
	pdf.CellFormat(matchWidth, 8, "Matches", "1", 0, "C", false, 0, "")
	if hasBye {
		pdf.CellFormat(35, 8, "Bye", "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for ri, round := range result.Schedule {
		var matches []string
		for _, m := range round {
			matches = append(matches, fmt.Sprintf("%s @ %s", names[m.Away], names[m.Home]))
		}

		pdf.CellFormat(18, 7, fmt.Sprintf("%d", ri+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(matchWidth, 7, strings.Join(matches, ", "), "1", 0, "", false, 0, "")
		if hasBye {
			bye := ""
			for team, opponents := range grid {
				if opponents[ri] == schedule.Bye {
					bye = names[team]
					break
				}
			}
			pdf.CellFormat(35, 7, bye, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func writeTeams(pdf *gofpdf.Fpdf, cfg *config.Config, result *anneal.Result) {
	tiers := cfg.Tiers()
	table := cfg.CostTable()
	shares := cost.Breakdown(result.Schedule, tiers, table)
	stretches := make([]int, cfg.NumTeams())
	for _, h := range cost.Hotspots(result.Schedule, tiers, table) {
		stretches[h.Team]++
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, "Team demands", "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(60, 8, "Team", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Tier", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, "Cost share", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 8, "Demanding stretches", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for teamIdx, name := range cfg.TeamNames() {
		pdf.CellFormat(60, 7, name, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, string(tiers[teamIdx]), "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 7, fmt.Sprintf("%.1f", shares[teamIdx]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%d", stretches[teamIdx]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}

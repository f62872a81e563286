package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fairdraw/fairdraw/internal/anneal"
	"github.com/fairdraw/fairdraw/internal/cases"
	"github.com/fairdraw/fairdraw/internal/config"
	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/schedule"
)

// maxChartPoints caps how many history samples feed the search chart.
const maxChartPoints = 200

// Generate creates an Excel workbook for one tournament run: the master
// schedule, one sheet per team, a cost analysis sheet, and the search
// trace with a chart.
func Generate(cfg *config.Config, result *anneal.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set default font for the workbook
	f.SetDefaultFont("Arial")

	if err := writeScheduleSheet(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeTeamSheets(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}
	if err := writeAnalysisSheet(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing analysis sheet: %w", err)
	}
	if err := writeSearchSheet(f, result); err != nil {
		return nil, fmt.Errorf("writing search sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func newHeaderStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func newCellStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	return style
}

func newCenteredStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	style := newHeaderStyle(f)
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
		if style != 0 {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), style)
		}
	}
}

func writeScheduleSheet(f *excelize.File, cfg *config.Config, result *anneal.Result) error {
	sheet := "Schedule"
	f.NewSheet(sheet)

	names := cfg.TeamNames()
	grid := schedule.Grid(result.Schedule, cfg.NumTeams())
	hasBye := cfg.NumTeams()%2 != 0

	maxMatches := 0
	for _, round := range result.Schedule {
		if len(round) > maxMatches {
			maxMatches = len(round)
		}
	}

	headers := []string{"Round"}
	for i := 1; i <= maxMatches; i++ {
		headers = append(headers, fmt.Sprintf("Match %d", i))
	}
	if hasBye {
		headers = append(headers, "Bye")
	}
	writeHeaders(f, sheet, headers)

	cellStyle := newCellStyle(f)
	matchStyle := newCenteredStyle(f)

	for ri, round := range result.Schedule {
		row := ri + 2
		f.SetCellValue(sheet, cellRef(1, row), ri+1)
		for mi, m := range round {
			f.SetCellValue(sheet, cellRef(mi+2, row), fmt.Sprintf("%s @ %s", names[m.Away], names[m.Home]))
		}
		if hasBye {
			for team, opponents := range grid {
				if opponents[ri] == schedule.Bye {
					f.SetCellValue(sheet, cellRef(maxMatches+2, row), names[team])
					break
				}
			}
		}

		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), cellStyle)
			for col := 2; col <= len(headers); col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), matchStyle)
			}
		}
	}

	// Set column widths (sized for Arial 16)
	f.SetColWidth(sheet, "A", "A", 10)
	for i := 0; i < maxMatches; i++ {
		col := colLetter(i + 2)
		f.SetColWidth(sheet, col, col, 30)
	}
	if hasBye {
		col := colLetter(maxMatches + 2)
		f.SetColWidth(sheet, col, col, 18)
	}

	// Conditional formatting: match cells that hold anything but a game
	// get light red
	lastRow := len(result.Schedule) + 1
	redFill, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	for i := 0; i < maxMatches; i++ {
		col := colLetter(i + 2)
		cellRange := fmt.Sprintf("%s2:%s%d", col, col, lastRow)
		topCell := fmt.Sprintf("%s2", col)
		formula := fmt.Sprintf(`AND(%s<>"",ISERROR(FIND(" @ ",%s)))`, topCell, topCell)
		f.SetConditionalFormat(sheet, cellRange, []excelize.ConditionalFormatOptions{
			{
				Type:     "formula",
				Criteria: formula,
				Format:   &redFill,
			},
		})
	}

	return nil
}

func writeTeamSheets(f *excelize.File, cfg *config.Config, result *anneal.Result) error {
	names := cfg.TeamNames()
	tiers := cfg.Tiers()

	for teamIdx, team := range names {
		sheet := team
		f.NewSheet(sheet)

		writeHeaders(f, sheet, []string{"Round", "Opponent", "Opponent Tier", "Venue"})
		cellStyle := newCellStyle(f)

		for ri, round := range result.Schedule {
			row := ri + 2
			f.SetCellValue(sheet, cellRef(1, row), ri+1)

			opponent, venue := "Bye", ""
			var tier cost.Tier
			for _, m := range round {
				if m.Home == teamIdx {
					opponent, venue, tier = names[m.Away], "Home", tiers[m.Away]
					break
				}
				if m.Away == teamIdx {
					opponent, venue, tier = names[m.Home], "Away", tiers[m.Home]
					break
				}
			}
			f.SetCellValue(sheet, cellRef(2, row), opponent)
			f.SetCellValue(sheet, cellRef(3, row), string(tier))
			f.SetCellValue(sheet, cellRef(4, row), venue)

			if cellStyle != 0 {
				for col := 1; col <= 4; col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), cellStyle)
				}
			}
		}

		// Set column widths (sized for Arial 16)
		widths := map[string]float64{"A": 10, "B": 24, "C": 18, "D": 12}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}

	return nil
}

func writeAnalysisSheet(f *excelize.File, cfg *config.Config, result *anneal.Result) error {
	sheet := "Analysis"
	f.NewSheet(sheet)

	writeHeaders(f, sheet, []string{"Metric", "Value"})
	cellStyle := newCellStyle(f)

	metrics := []struct {
		label string
		value interface{}
	}{
		{"Tournament", cfg.Tournament.Name},
		{"Teams", cfg.NumTeams()},
		{"Rounds", len(result.Schedule)},
		{"Strategy", cfg.Strategy},
		{"Iterations", cfg.Annealing.Iterations},
		{"Initial cost", result.InitialCost},
		{"Best cost", result.Cost},
		{"Improvement %", result.Improvement()},
		{"Accepted moves", result.Accepted},
		{"Rejected moves", result.Rejected},
		{"Discarded candidates", result.Discarded},
		{"Valid", result.Valid},
	}
	for i, m := range metrics {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), m.label)
		f.SetCellValue(sheet, cellRef(2, row), m.value)
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(2, row), cellStyle)
		}
	}

	// Per-team cost table below the metrics block.
	tiers := cfg.Tiers()
	table := cfg.CostTable()
	shares := cost.Breakdown(result.Schedule, tiers, table)
	stretches := make([]int, cfg.NumTeams())
	for _, h := range cost.Hotspots(result.Schedule, tiers, table) {
		stretches[h.Team]++
	}

	headerRow := len(metrics) + 3
	teamHeaders := []string{"Team", "Tier", "Cost Share", "Demanding Stretches"}
	headerStyle := newHeaderStyle(f)
	for i, h := range teamHeaders {
		f.SetCellValue(sheet, cellRef(i+1, headerRow), h)
		if headerStyle != 0 {
			f.SetCellStyle(sheet, cellRef(i+1, headerRow), cellRef(i+1, headerRow), headerStyle)
		}
	}
	for teamIdx, name := range cfg.TeamNames() {
		row := headerRow + 1 + teamIdx
		f.SetCellValue(sheet, cellRef(1, row), name)
		f.SetCellValue(sheet, cellRef(2, row), string(tiers[teamIdx]))
		f.SetCellValue(sheet, cellRef(3, row), shares[teamIdx])
		f.SetCellValue(sheet, cellRef(4, row), stretches[teamIdx])
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(4, row), cellStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 26)
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "C", 14)
	f.SetColWidth(sheet, "D", "D", 22)

	return nil
}

func writeSearchSheet(f *excelize.File, result *anneal.Result) error {
	sheet := "Search"
	f.NewSheet(sheet)

	writeHeaders(f, sheet, []string{"Iteration", "Best Cost"})

	step := 1
	if len(result.History) > maxChartPoints {
		step = (len(result.History) + maxChartPoints - 1) / maxChartPoints
	}

	row := 2
	for i := 0; i < len(result.History); i += step {
		f.SetCellValue(sheet, cellRef(1, row), i+1)
		f.SetCellValue(sheet, cellRef(2, row), result.History[i])
		row++
	}
	if last := len(result.History) - 1; last >= 0 && last%step != 0 {
		f.SetCellValue(sheet, cellRef(1, row), last+1)
		f.SetCellValue(sheet, cellRef(2, row), result.History[last])
		row++
	}
	lastRow := row - 1

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 14)

	if lastRow < 2 {
		return nil
	}
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       "Best cost",
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: "Best cost by iteration"}},
	}
	if err := f.AddChart(sheet, "D2", chart); err != nil {
		return fmt.Errorf("adding search chart: %w", err)
	}

	return nil
}

// CaseOutcome pairs a benchmark case with its annealing result.
type CaseOutcome struct {
	Case   cases.Case
	Result *anneal.Result
}

// CasesReport creates a workbook summarizing a benchmark run, with a
// column chart comparing starting and best costs per case.
func CasesReport(outcomes []CaseOutcome) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	sheet := "Cases"
	f.NewSheet(sheet)

	headers := []string{"Case", "Teams", "Strong", "Medium", "Weak", "Initial Cost", "Best Cost", "Improvement %", "Valid"}
	writeHeaders(f, sheet, headers)
	cellStyle := newCellStyle(f)

	for i, o := range outcomes {
		row := i + 2
		strong, medium, weak := o.Case.Counts()
		f.SetCellValue(sheet, cellRef(1, row), o.Case.Name)
		f.SetCellValue(sheet, cellRef(2, row), o.Case.NumTeams())
		f.SetCellValue(sheet, cellRef(3, row), strong)
		f.SetCellValue(sheet, cellRef(4, row), medium)
		f.SetCellValue(sheet, cellRef(5, row), weak)
		f.SetCellValue(sheet, cellRef(6, row), o.Result.InitialCost)
		f.SetCellValue(sheet, cellRef(7, row), o.Result.Cost)
		f.SetCellValue(sheet, cellRef(8, row), o.Result.Improvement())
		f.SetCellValue(sheet, cellRef(9, row), o.Result.Valid)
		if cellStyle != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), cellStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	for i := 2; i <= len(headers); i++ {
		col := colLetter(i)
		f.SetColWidth(sheet, col, col, 16)
	}

	if len(outcomes) > 0 {
		lastRow := len(outcomes) + 1
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{
					Name:       "Initial cost",
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, lastRow),
					Values:     fmt.Sprintf("%s!$F$2:$F$%d", sheet, lastRow),
				},
				{
					Name:       "Best cost",
					Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, lastRow),
					Values:     fmt.Sprintf("%s!$G$2:$G$%d", sheet, lastRow),
				},
			},
			Title: []excelize.RichTextRun{{Text: "Cost before and after annealing"}},
		}
		if err := f.AddChart(sheet, cellRef(len(headers)+2, 2), chart); err != nil {
			return nil, fmt.Errorf("adding cases chart: %w", err)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

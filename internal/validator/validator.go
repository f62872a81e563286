package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fairdraw/fairdraw/internal/config"
	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/schedule"
)

// Violation represents a problem found in a schedule workbook.
type Violation struct {
	Row     int    // row in the Schedule sheet, 0 for sheet-level findings
	Type    string // "error" or "warning"
	Message string
	Cost    float64 // for adjacency warnings: the penalty paid
}

// Validate reads a schedule workbook and checks it against the config.
// Broken round-robin invariants come back as errors; demanding stretches
// that merely cost something come back as warnings, worst first. A
// freshly generated workbook never produces errors, so anything of type
// "error" points at a hand edit.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	parsed, violations, err := readSchedule(f, cfg)
	if err != nil {
		return nil, err
	}

	violations = append(violations, checkRoundCount(cfg, parsed)...)
	violations = append(violations, checkRounds(cfg, parsed)...)
	violations = append(violations, checkPairs(cfg, parsed)...)
	violations = append(violations, checkAdjacency(cfg, parsed)...)

	return violations, nil
}

type parsedSchedule struct {
	rounds schedule.Schedule
	byes   []string // bye column text per round, "" when blank
}

func readSchedule(f *excelize.File, cfg *config.Config) (parsedSchedule, []Violation, error) {
	rows, err := f.GetRows("Schedule")
	if err != nil {
		return parsedSchedule{}, nil, fmt.Errorf("reading Schedule sheet: %w", err)
	}
	if len(rows) == 0 {
		return parsedSchedule{}, nil, fmt.Errorf("Schedule sheet is empty")
	}

	header := rows[0]
	var matchCols []int
	byeCol := -1
	for i, h := range header {
		switch {
		case strings.HasPrefix(h, "Match "):
			matchCols = append(matchCols, i)
		case h == "Bye":
			byeCol = i
		}
	}

	var parsed parsedSchedule
	var violations []Violation
	for i, row := range rows {
		if i == 0 {
			continue
		}
		sheetRow := i + 1

		var round schedule.Round
		for _, col := range matchCols {
			if col >= len(row) || row[col] == "" {
				continue
			}
			away, home, ok := parseMatchCell(row[col])
			if !ok {
				violations = append(violations, Violation{
					Row:     sheetRow,
					Type:    "error",
					Message: fmt.Sprintf("cell %q is not an away @ home pairing", row[col]),
				})
				continue
			}
			awayIdx, awayKnown := cfg.TeamIndex(away)
			homeIdx, homeKnown := cfg.TeamIndex(home)
			if !awayKnown {
				violations = append(violations, Violation{
					Row:     sheetRow,
					Type:    "error",
					Message: fmt.Sprintf("unknown team %q", away),
				})
			}
			if !homeKnown {
				violations = append(violations, Violation{
					Row:     sheetRow,
					Type:    "error",
					Message: fmt.Sprintf("unknown team %q", home),
				})
			}
			if !awayKnown || !homeKnown {
				continue
			}
			round = append(round, schedule.Match{Home: homeIdx, Away: awayIdx})
		}

		bye := ""
		if byeCol >= 0 && byeCol < len(row) {
			bye = row[byeCol]
		}
		parsed.rounds = append(parsed.rounds, round)
		parsed.byes = append(parsed.byes, bye)
	}

	return parsed, violations, nil
}

// parseMatchCell parses "Away @ Home" and returns (away, home, true).
// Returns ("", "", false) if the cell doesn't match the pairing format.
func parseMatchCell(cell string) (away, home string, ok bool) {
	for i := 0; i < len(cell)-2; i++ {
		if cell[i] == ' ' && cell[i+1] == '@' && cell[i+2] == ' ' {
			return cell[:i], cell[i+3:], true
		}
	}
	return "", "", false
}

func checkRoundCount(cfg *config.Config, parsed parsedSchedule) []Violation {
	want := schedule.RoundCount(cfg.NumTeams())
	if len(parsed.rounds) == want {
		return nil
	}
	return []Violation{{
		Type:    "error",
		Message: fmt.Sprintf("schedule has %d rounds, want %d for %d teams", len(parsed.rounds), want, cfg.NumTeams()),
	}}
}

func checkRounds(cfg *config.Config, parsed parsedSchedule) []Violation {
	names := cfg.TeamNames()
	wantByes := 0
	if cfg.NumTeams()%2 != 0 {
		wantByes = 1
	}

	var violations []Violation
	for ri, round := range parsed.rounds {
		row := ri + 2
		appearances := make([]int, cfg.NumTeams())
		for _, m := range round {
			if m.Home == m.Away {
				violations = append(violations, Violation{
					Row:     row,
					Type:    "error",
					Message: fmt.Sprintf("%s is paired with itself", names[m.Home]),
				})
				continue
			}
			appearances[m.Home]++
			appearances[m.Away]++
		}

		var absent []string
		for team, count := range appearances {
			if count > 1 {
				violations = append(violations, Violation{
					Row:     row,
					Type:    "error",
					Message: fmt.Sprintf("%s plays %d matches in round %d", names[team], count, ri+1),
				})
			}
			if count == 0 {
				absent = append(absent, names[team])
			}
		}

		if len(absent) != wantByes {
			violations = append(violations, Violation{
				Row:     row,
				Type:    "error",
				Message: fmt.Sprintf("%d teams sit out round %d, want %d", len(absent), ri+1, wantByes),
			})
		}
		if wantByes == 1 && len(absent) == 1 && parsed.byes[ri] != "" && parsed.byes[ri] != absent[0] {
			violations = append(violations, Violation{
				Row:     row,
				Type:    "error",
				Message: fmt.Sprintf("bye column says %q but %s sits out round %d", parsed.byes[ri], absent[0], ri+1),
			})
		}
	}
	return violations
}

func checkPairs(cfg *config.Config, parsed parsedSchedule) []Violation {
	names := cfg.TeamNames()
	type pair struct{ a, b int }
	first := make(map[pair]int)

	var violations []Violation
	for ri, round := range parsed.rounds {
		for _, m := range round {
			p := pair{m.Home, m.Away}
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			if prev, seen := first[p]; seen {
				violations = append(violations, Violation{
					Row:     ri + 2,
					Type:    "error",
					Message: fmt.Sprintf("%s vs %s already played in round %d", names[p.a], names[p.b], prev),
				})
				continue
			}
			first[p] = ri + 1
		}
	}

	n := cfg.NumTeams()
	if want := n * (n - 1) / 2; len(first) != want {
		violations = append(violations, Violation{
			Type:    "error",
			Message: fmt.Sprintf("schedule plays %d of %d required pairings", len(first), want),
		})
	}
	return violations
}

func checkAdjacency(cfg *config.Config, parsed parsedSchedule) []Violation {
	if len(parsed.rounds) == 0 {
		return nil
	}
	names := cfg.TeamNames()

	var violations []Violation
	for _, h := range cost.Hotspots(parsed.rounds, cfg.Tiers(), cfg.CostTable()) {
		if h.Amount == 0 {
			continue
		}
		violations = append(violations, Violation{
			Row:  h.Round + 2,
			Type: "warning",
			Cost: h.Amount,
			Message: fmt.Sprintf("%s faces demanding opponents back to back in rounds %d and %d",
				names[h.Team], h.Round+1, h.Round+2),
		})
	}
	// Sort by severity: highest penalty first
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].Cost > violations[j].Cost
	})
	return violations
}

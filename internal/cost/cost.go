package cost

import (
	"fmt"
	"strings"

	"github.com/fairdraw/fairdraw/internal/schedule"
)

// Tier is a team's strength class. The cost model prices the difficulty of
// facing particular tiers back to back.
type Tier string

const (
	Strong Tier = "strong"
	Medium Tier = "medium"
	Weak   Tier = "weak"
)

// ParseTier maps a config or case-file string onto a Tier. Matching is
// case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Strong:
		return Strong, nil
	case Medium:
		return Medium, nil
	case Weak:
		return Weak, nil
	}
	return "", fmt.Errorf("unknown tier: %q", s)
}

// Known reports whether t is one of the three tier constants. Strings that
// would merely parse to a tier are not Known until ParseTier canonicalizes
// them.
func (t Tier) Known() bool {
	return t == Strong || t == Medium || t == Weak
}

// Table prices consecutive-opponent combinations per team tier. Each row
// holds four entries indexed by the ordered pair of opponent tiers:
// 0 = (strong, strong), 1 = (strong, medium), 2 = (medium, strong),
// 3 = (medium, medium). Combinations involving a weak opponent cost
// nothing and have no entry.
type Table map[Tier][4]float64

// DefaultTable returns the stock penalty table: weaker teams pay more for
// the same demanding stretch, and two strong opponents in a row cost the
// most within each row.
func DefaultTable() Table {
	return Table{
		Strong: {16, 4, 4, 2},
		Medium: {32, 8, 8, 4},
		Weak:   {48, 12, 12, 6},
	}
}

// Validate checks that the table prices every tier: a row each for strong,
// medium, and weak, with no negative entries.
func (t Table) Validate() error {
	for _, tier := range []Tier{Strong, Medium, Weak} {
		row, ok := t[tier]
		if !ok {
			return fmt.Errorf("cost table is missing the %q row", tier)
		}
		for i, v := range row {
			if v < 0 {
				return fmt.Errorf("cost table %s row entry %d is negative", tier, i)
			}
		}
	}
	return nil
}

// comboIndex returns the table column for an ordered pair of opponent
// tiers. The second return is false when the pair involves a weak opponent
// and therefore carries no penalty.
func comboIndex(first, second Tier) (int, bool) {
	switch {
	case first == Strong && second == Strong:
		return 0, true
	case first == Strong && second == Medium:
		return 1, true
	case first == Medium && second == Strong:
		return 2, true
	case first == Medium && second == Medium:
		return 3, true
	}
	return 0, false
}

// Hotspot is one priced adjacency: team faced two non-weak opponents in
// rounds Round and Round+1 and paid Amount for it.
type Hotspot struct {
	Team   int
	Round  int
	Amount float64
}

// Hotspots lists every priced adjacency in s. For each team it walks the
// opponent sequence round by round and prices each consecutive pair of
// non-weak opponents using the team's own row of the table. Byes break
// the sequence: an adjacency across a bye is never priced.
func Hotspots(s schedule.Schedule, tiers []Tier, table Table) []Hotspot {
	grid := schedule.Grid(s, len(tiers))
	var out []Hotspot
	for team, row := range grid {
		for r := 0; r+1 < len(row); r++ {
			cur, next := row[r], row[r+1]
			if cur < 0 || cur >= len(tiers) || next < 0 || next >= len(tiers) {
				continue
			}
			idx, priced := comboIndex(tiers[cur], tiers[next])
			if !priced {
				continue
			}
			out = append(out, Hotspot{Team: team, Round: r, Amount: table[tiers[team]][idx]})
		}
	}
	return out
}

// Evaluate returns the total schedule cost: the sum over all teams of the
// priced adjacencies in their opponent sequences. Lower is better; zero
// means no team ever faces two non-weak opponents back to back.
func Evaluate(s schedule.Schedule, tiers []Tier, table Table) float64 {
	var total float64
	for _, h := range Hotspots(s, tiers, table) {
		total += h.Amount
	}
	return total
}

// Breakdown returns each team's share of the total cost, indexed by team.
func Breakdown(s schedule.Schedule, tiers []Tier, table Table) []float64 {
	perTeam := make([]float64, len(tiers))
	for _, h := range Hotspots(s, tiers, table) {
		perTeam[h.Team] += h.Amount
	}
	return perTeam
}

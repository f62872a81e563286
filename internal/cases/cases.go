package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/tidwall/gjson"

	"github.com/fairdraw/fairdraw/internal/cost"
)

// Case is one benchmark scenario: an anonymous field of teams identified
// only by their strength classes.
type Case struct {
	Name  string      `json:"name"`
	Tiers []cost.Tier `json:"tiers"`
}

// NumTeams returns the number of teams in the case.
func (c Case) NumTeams() int {
	return len(c.Tiers)
}

// Counts returns how many teams sit in each strength class.
func (c Case) Counts() (strong, medium, weak int) {
	for _, tier := range c.Tiers {
		switch tier {
		case cost.Strong:
			strong++
		case cost.Medium:
			medium++
		case cost.Weak:
			weak++
		}
	}
	return strong, medium, weak
}

// Load reads a case file from disk.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	return Parse(data)
}

// Parse reads both case layouts: the current {"name", "tiers"} form and
// the legacy {"num_teams", "strong", "medium", "weak"} form whose tier
// lists hold 1-based team numbers.
func Parse(data []byte) ([]Case, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("case file is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, errors.New("case file must hold a JSON array")
	}

	var out []Case
	var parseErr error
	root.ForEach(func(_, item gjson.Result) bool {
		c, err := parseCase(item, len(out)+1)
		if err != nil {
			parseErr = err
			return false
		}
		out = append(out, c)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(out) == 0 {
		return nil, errors.New("case file holds no cases")
	}
	return out, nil
}

func parseCase(item gjson.Result, ordinal int) (Case, error) {
	name := item.Get("name").String()
	if name == "" {
		name = fmt.Sprintf("Case %d", ordinal)
	}

	if tiers := item.Get("tiers"); tiers.Exists() {
		c := Case{Name: name}
		for _, raw := range tiers.Array() {
			tier, err := cost.ParseTier(raw.String())
			if err != nil {
				return Case{}, fmt.Errorf("case %d: %w", ordinal, err)
			}
			c.Tiers = append(c.Tiers, tier)
		}
		if len(c.Tiers) < 2 {
			return Case{}, fmt.Errorf("case %d: at least two teams are required", ordinal)
		}
		return c, nil
	}

	n := int(item.Get("num_teams").Int())
	if n < 2 {
		return Case{}, fmt.Errorf("case %d: at least two teams are required", ordinal)
	}
	tiers := make([]cost.Tier, n)
	for _, tier := range []cost.Tier{cost.Strong, cost.Medium, cost.Weak} {
		for _, raw := range item.Get(string(tier)).Array() {
			id := int(raw.Int())
			if id < 1 || id > n {
				return Case{}, fmt.Errorf("case %d: team %d is outside 1..%d", ordinal, id, n)
			}
			if tiers[id-1] != "" {
				return Case{}, fmt.Errorf("case %d: team %d is assigned to two tiers", ordinal, id)
			}
			tiers[id-1] = tier
		}
	}
	for id, tier := range tiers {
		if tier == "" {
			return Case{}, fmt.Errorf("case %d: team %d has no tier", ordinal, id+1)
		}
	}
	return Case{Name: name, Tiers: tiers}, nil
}

// Save writes cases to path in the current layout.
func Save(path string, cases []Case) error {
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cases: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing case file: %w", err)
	}
	return nil
}

// Default returns the stock benchmark cases: a six and an eight team
// field with fixed tier splits.
func Default() []Case {
	return []Case{
		{
			Name: "Six team split",
			Tiers: []cost.Tier{
				cost.Strong, cost.Strong,
				cost.Medium, cost.Medium,
				cost.Weak, cost.Weak,
			},
		},
		{
			Name: "Eight team split",
			Tiers: []cost.Tier{
				cost.Strong, cost.Strong, cost.Strong,
				cost.Medium, cost.Medium,
				cost.Weak, cost.Weak, cost.Weak,
			},
		},
	}
}

// Random generates count cases of 4 to 10 teams. A third of each field
// (at least one team) is strong, another third medium, and the remainder
// weak, with the class assignment shuffled across team ids.
func Random(count int, rng *rand.Rand) []Case {
	out := make([]Case, count)
	for i := range out {
		n := 4 + rng.Intn(7)
		numStrong := max(1, n/3)
		numMedium := max(1, n/3)

		tiers := make([]cost.Tier, n)
		for pos, id := range rng.Perm(n) {
			switch {
			case pos < numStrong:
				tiers[id] = cost.Strong
			case pos < numStrong+numMedium:
				tiers[id] = cost.Medium
			default:
				tiers[id] = cost.Weak
			}
		}
		out[i] = Case{
			Name:  fmt.Sprintf("Random %d (%d teams)", i+1, n),
			Tiers: tiers,
		}
	}
	return out
}

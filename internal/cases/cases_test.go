package cases

import (
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/fairdraw/fairdraw/internal/cost"
)

func TestParseCurrentLayout(t *testing.T) {
	data := []byte(`[
		{"name": "Small field", "tiers": ["strong", "medium", "weak", "weak"]},
		{"tiers": ["Strong", "WEAK"]}
	]`)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d cases, want 2", len(got))
	}

	if got[0].Name != "Small field" {
		t.Errorf("name = %q, want %q", got[0].Name, "Small field")
	}
	want := []cost.Tier{cost.Strong, cost.Medium, cost.Weak, cost.Weak}
	if !reflect.DeepEqual(got[0].Tiers, want) {
		t.Errorf("tiers = %v, want %v", got[0].Tiers, want)
	}

	if got[1].Name != "Case 2" {
		t.Errorf("unnamed case = %q, want %q", got[1].Name, "Case 2")
	}
	if got[1].NumTeams() != 2 {
		t.Errorf("NumTeams() = %d, want 2", got[1].NumTeams())
	}
}

func TestParseLegacyLayout(t *testing.T) {
	data := []byte(`[
		{
			"num_teams": 6,
			"strong": [1, 2],
			"medium": [3, 4],
			"weak": [5, 6]
		},
		{
			"num_teams": 8,
			"strong": [1, 2, 3],
			"medium": [4, 5],
			"weak": [6, 7, 8]
		}
	]`)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d cases, want 2", len(got))
	}

	want := []cost.Tier{cost.Strong, cost.Strong, cost.Medium, cost.Medium, cost.Weak, cost.Weak}
	if !reflect.DeepEqual(got[0].Tiers, want) {
		t.Errorf("tiers = %v, want %v", got[0].Tiers, want)
	}

	strong, medium, weak := got[1].Counts()
	if strong != 3 || medium != 2 || weak != 3 {
		t.Errorf("counts = %d/%d/%d, want 3/2/3", strong, medium, weak)
	}
}

func TestParseLegacyShuffledIds(t *testing.T) {
	data := []byte(`[{"num_teams": 4, "strong": [3], "medium": [1, 4], "weak": [2]}]`)

	got, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []cost.Tier{cost.Medium, cost.Weak, cost.Strong, cost.Medium}
	if !reflect.DeepEqual(got[0].Tiers, want) {
		t.Errorf("tiers = %v, want %v", got[0].Tiers, want)
	}
}

func TestParseRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"not an array", `{"num_teams": 6}`},
		{"empty array", `[]`},
		{"unknown tier", `[{"tiers": ["strong", "average"]}]`},
		{"single team", `[{"tiers": ["strong"]}]`},
		{"legacy team out of range", `[{"num_teams": 4, "strong": [1, 5], "medium": [2], "weak": [3, 4]}]`},
		{"legacy team in two tiers", `[{"num_teams": 4, "strong": [1, 2], "medium": [2], "weak": [3, 4]}]`},
		{"legacy team unassigned", `[{"num_teams": 4, "strong": [1], "medium": [2], "weak": [3]}]`},
		{"legacy too few teams", `[{"num_teams": 1, "strong": [1]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	want := Default()

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed cases: got %+v, want %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDefaultCases(t *testing.T) {
	got := Default()
	if len(got) != 2 {
		t.Fatalf("got %d cases, want 2", len(got))
	}
	if got[0].NumTeams() != 6 || got[1].NumTeams() != 8 {
		t.Errorf("team counts = %d and %d, want 6 and 8", got[0].NumTeams(), got[1].NumTeams())
	}
	strong, medium, weak := got[0].Counts()
	if strong != 2 || medium != 2 || weak != 2 {
		t.Errorf("six team counts = %d/%d/%d, want 2/2/2", strong, medium, weak)
	}
}

func TestRandomCases(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	got := Random(25, rng)
	if len(got) != 25 {
		t.Fatalf("got %d cases, want 25", len(got))
	}

	for i, c := range got {
		n := c.NumTeams()
		if n < 4 || n > 10 {
			t.Errorf("case %d has %d teams, want 4..10", i+1, n)
		}
		strong, medium, weak := c.Counts()
		if wantStrong := max(1, n/3); strong != wantStrong {
			t.Errorf("case %d: %d strong teams, want %d", i+1, strong, wantStrong)
		}
		if wantMedium := max(1, n/3); medium != wantMedium {
			t.Errorf("case %d: %d medium teams, want %d", i+1, medium, wantMedium)
		}
		if weak < 1 {
			t.Errorf("case %d has no weak teams", i+1)
		}
		if c.Name == "" {
			t.Errorf("case %d has no name", i+1)
		}
	}
}

func TestRandomIsSeedReproducible(t *testing.T) {
	first := Random(5, rand.New(rand.NewSource(9)))
	second := Random(5, rand.New(rand.NewSource(9)))
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed produced different cases")
	}
}

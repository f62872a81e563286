package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestBuildEvenTeamCounts(t *testing.T) {
	for _, n := range []int{2, 4, 6, 8, 10} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			s, err := Build(n)
			if err != nil {
				t.Fatalf("Build(%d) returned error: %v", n, err)
			}
			if got, want := len(s), n-1; got != want {
				t.Errorf("got %d rounds, want %d", got, want)
			}
			for ri, round := range s {
				if got, want := len(round), n/2; got != want {
					t.Errorf("round %d has %d matches, want %d", ri+1, got, want)
				}
			}
			if err := Check(s, n); err != nil {
				t.Errorf("Check failed: %v", err)
			}
		})
	}
}

func TestBuildOddTeamCounts(t *testing.T) {
	for _, n := range []int{3, 5, 7, 9} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			s, err := Build(n)
			if err != nil {
				t.Fatalf("Build(%d) returned error: %v", n, err)
			}
			if got, want := len(s), n; got != want {
				t.Errorf("got %d rounds, want %d", got, want)
			}
			for ri, round := range s {
				if got, want := len(round), (n-1)/2; got != want {
					t.Errorf("round %d has %d matches, want %d", ri+1, got, want)
				}
			}
			if err := Check(s, n); err != nil {
				t.Errorf("Check failed: %v", err)
			}
		})
	}
}

func TestBuildTooFewTeams(t *testing.T) {
	for _, n := range []int{-3, 0, 1} {
		if _, err := Build(n); !errors.Is(err, ErrTooFewTeams) {
			t.Errorf("Build(%d) error = %v, want ErrTooFewTeams", n, err)
		}
	}
}

func TestBuildCoversEveryPairOnce(t *testing.T) {
	const n = 8
	s, err := Build(n)
	if err != nil {
		t.Fatalf("Build(%d) returned error: %v", n, err)
	}

	type pair struct{ a, b int }
	seen := make(map[pair]int)
	for _, round := range s {
		for _, m := range round {
			p := pair{m.Home, m.Away}
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			seen[p]++
		}
	}

	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			if got := seen[pair{a, b}]; got != 1 {
				t.Errorf("pair %d vs %d appears %d times, want 1", a, b, got)
			}
		}
	}
	if got, want := len(seen), n*(n-1)/2; got != want {
		t.Errorf("got %d distinct pairs, want %d", got, want)
	}
}

func TestCheckViolations(t *testing.T) {
	tests := []struct {
		name     string
		numTeams int
		tamper   func(Schedule) Schedule
	}{
		{
			name:     "missing round",
			numTeams: 6,
			tamper: func(s Schedule) Schedule {
				return s[:len(s)-1]
			},
		},
		{
			name:     "team plays twice in a round",
			numTeams: 6,
			tamper: func(s Schedule) Schedule {
				s[0][1] = Match{Home: s[0][0].Home, Away: s[0][1].Away}
				return s
			},
		},
		{
			name:     "team paired with itself",
			numTeams: 6,
			tamper: func(s Schedule) Schedule {
				s[1][0] = Match{Home: 2, Away: 2}
				return s
			},
		},
		{
			name:     "unknown team id",
			numTeams: 6,
			tamper: func(s Schedule) Schedule {
				s[0][0].Away = 99
				return s
			},
		},
		{
			name:     "pair meets twice",
			numTeams: 6,
			tamper: func(s Schedule) Schedule {
				s[2] = append(Round{}, s[0]...)
				return s
			},
		},
		{
			name:     "extra bye in odd schedule",
			numTeams: 7,
			tamper: func(s Schedule) Schedule {
				s[0] = s[0][:len(s[0])-1]
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(tt.numTeams)
			if err != nil {
				t.Fatalf("Build(%d) returned error: %v", tt.numTeams, err)
			}
			if err := Check(tt.tamper(s), tt.numTeams); err == nil {
				t.Error("Check accepted a broken schedule")
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	s, err := Build(5)
	if err != nil {
		t.Fatalf("Build(5) returned error: %v", err)
	}
	if !IsValid(s, 5) {
		t.Error("IsValid = false for a freshly built schedule")
	}
	s[0][0].Away = s[0][0].Home
	if IsValid(s, 5) {
		t.Error("IsValid = true for a schedule with a self-match")
	}
}

func TestCheckIsIdempotent(t *testing.T) {
	for _, n := range []int{6, 7} {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			s, err := Build(n)
			if err != nil {
				t.Fatalf("Build(%d) returned error: %v", n, err)
			}
			snapshot := s.Clone()

			first, second := Check(s, n), Check(s, n)
			if first != nil || second != nil {
				t.Errorf("repeated Check = %v then %v, want nil twice", first, second)
			}
			if IsValid(s, n) != IsValid(s, n) {
				t.Error("repeated IsValid disagrees with itself")
			}
			if !reflect.DeepEqual(s, snapshot) {
				t.Error("Check modified the schedule it was given")
			}

			s[0][0].Away = s[0][0].Home
			broken := s.Clone()
			firstErr, secondErr := Check(s, n), Check(s, n)
			if firstErr == nil || secondErr == nil {
				t.Fatalf("repeated Check of a self-match = %v then %v, want errors", firstErr, secondErr)
			}
			if firstErr.Error() != secondErr.Error() {
				t.Errorf("repeated Check reports %q then %q", firstErr, secondErr)
			}
			if !reflect.DeepEqual(s, broken) {
				t.Error("Check modified the broken schedule it was given")
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s, err := Build(6)
	if err != nil {
		t.Fatalf("Build(6) returned error: %v", err)
	}

	clone := s.Clone()
	if len(clone) != len(s) {
		t.Fatalf("clone has %d rounds, want %d", len(clone), len(s))
	}
	for ri := range s {
		for mi := range s[ri] {
			if clone[ri][mi] != s[ri][mi] {
				t.Fatalf("round %d match %d differs after clone: got %v, want %v", ri+1, mi, clone[ri][mi], s[ri][mi])
			}
		}
	}

	original := s[0][0]
	clone[0][0] = Match{Home: 4, Away: 5}
	if s[0][0] != original {
		t.Errorf("mutating the clone changed the original: got %v, want %v", s[0][0], original)
	}
}

func TestOpponent(t *testing.T) {
	s, err := Build(5)
	if err != nil {
		t.Fatalf("Build(5) returned error: %v", err)
	}

	for r := range s {
		byes := 0
		for team := 0; team < 5; team++ {
			opp, played := s.Opponent(team, r)
			if !played {
				byes++
				continue
			}
			back, ok := s.Opponent(opp, r)
			if !ok || back != team {
				t.Errorf("round %d: Opponent(%d) = %d but Opponent(%d) = %d", r+1, team, opp, opp, back)
			}
		}
		if byes != 1 {
			t.Errorf("round %d: %d teams report a bye, want 1", r+1, byes)
		}
	}

	if _, played := s.Opponent(0, len(s)); played {
		t.Error("Opponent reported a match for an out-of-range round")
	}
}

func TestGrid(t *testing.T) {
	const n = 7
	s, err := Build(n)
	if err != nil {
		t.Fatalf("Build(%d) returned error: %v", n, err)
	}

	grid := Grid(s, n)
	if len(grid) != n {
		t.Fatalf("grid has %d rows, want %d", len(grid), n)
	}
	for team, row := range grid {
		if len(row) != len(s) {
			t.Fatalf("team %d row has %d rounds, want %d", team, len(row), len(s))
		}
	}

	for r := range s {
		byes := 0
		for team := 0; team < n; team++ {
			opp := grid[team][r]
			if opp == Bye {
				byes++
				continue
			}
			if grid[opp][r] != team {
				t.Errorf("round %d: grid[%d] = %d but grid[%d] = %d", r+1, team, opp, opp, grid[opp][r])
			}
			if got, ok := s.Opponent(team, r); !ok || got != opp {
				t.Errorf("round %d team %d: grid says %d, Opponent says %d", r+1, team, opp, got)
			}
		}
		if byes != 1 {
			t.Errorf("round %d: grid shows %d byes, want 1", r+1, byes)
		}
	}
}

func TestRoundCount(t *testing.T) {
	tests := []struct {
		numTeams int
		want     int
	}{
		{2, 1},
		{4, 3},
		{5, 5},
		{6, 5},
		{9, 9},
		{10, 9},
	}
	for _, tt := range tests {
		if got := RoundCount(tt.numTeams); got != tt.want {
			t.Errorf("RoundCount(%d) = %d, want %d", tt.numTeams, got, tt.want)
		}
	}
}

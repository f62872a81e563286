package schedule

import (
	"errors"
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// ErrTooFewTeams is returned by Build and Check when fewer than two teams
// are requested.
var ErrTooFewTeams = errors.New("at least two teams are required")

// Match pairs two teams in one round. The Home/Away orientation carries no
// weight in the bundled cost model but is preserved through perturbation
// and shown in reports.
type Match struct {
	Home int
	Away int
}

// Round holds the matches played in one round.
type Round []Match

// Schedule is an ordered sequence of rounds covering a single round-robin:
// every pair of teams meets exactly once across the whole schedule.
type Schedule []Round

// RoundCount returns the number of rounds a single round-robin of numTeams
// takes: numTeams-1 when even, numTeams when odd (one bye per round).
func RoundCount(numTeams int) int {
	if numTeams%2 == 0 {
		return numTeams - 1
	}
	return numTeams
}

// Build constructs a feasible round-robin schedule using the circle method:
// the team at position 0 stays fixed while the rest rotate one step each
// round, pairing position i with position n-1-i. An odd team count gets a
// placeholder team to even the circle; its matches are dropped from the
// output, leaving one real team with a bye each round.
func Build(numTeams int) (Schedule, error) {
	if numTeams < 2 {
		return nil, fmt.Errorf("building schedule for %d teams: %w", numTeams, ErrTooFewTeams)
	}

	n := numTeams
	placeholder := -1
	if n%2 != 0 {
		placeholder = n
		n++
	}

	teams := make([]int, n)
	for i := range teams {
		teams[i] = i
	}

	s := make(Schedule, 0, n-1)
	for round := 0; round < n-1; round++ {
		matches := make(Round, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := teams[i], teams[n-1-i]
			if a == placeholder || b == placeholder {
				continue
			}
			matches = append(matches, Match{Home: a, Away: b})
		}
		s = append(s, matches)

		// Rotate all but the fixed team: last position moves to position 1,
		// the middle shifts one step outward.
		rotated := make([]int, 0, n)
		rotated = append(rotated, teams[0], teams[n-1])
		rotated = append(rotated, teams[1:n-1]...)
		teams = rotated
	}

	return s, nil
}

// Check verifies the round-robin invariants of s for numTeams: the expected
// round count, per-round membership (every team id in range, no team twice
// in a round, exactly one team sitting out per round when numTeams is odd
// and none when even), and global pair coverage (no pair meets twice, total
// matches equal numTeams*(numTeams-1)/2). It reports the first violation
// found and never modifies s.
func Check(s Schedule, numTeams int) error {
	if numTeams < 2 {
		return fmt.Errorf("checking schedule for %d teams: %w", numTeams, ErrTooFewTeams)
	}
	if len(s) != RoundCount(numTeams) {
		return fmt.Errorf("schedule has %d rounds, want %d", len(s), RoundCount(numTeams))
	}

	wantByes := 0
	if numTeams%2 != 0 {
		wantByes = 1
	}

	type pair struct{ a, b int }
	seen := make(map[pair]int, numTeams*(numTeams-1)/2)

	for ri, round := range s {
		appearances := make([]int, numTeams)
		for _, m := range round {
			if m.Home < 0 || m.Home >= numTeams || m.Away < 0 || m.Away >= numTeams {
				return fmt.Errorf("round %d: match %d vs %d references an unknown team", ri+1, m.Home, m.Away)
			}
			if m.Home == m.Away {
				return fmt.Errorf("round %d: team %d is paired with itself", ri+1, m.Home)
			}
			appearances[m.Home]++
			appearances[m.Away]++

			p := pair{m.Home, m.Away}
			if p.a > p.b {
				p.a, p.b = p.b, p.a
			}
			if prev, ok := seen[p]; ok {
				return fmt.Errorf("teams %d and %d meet in round %d and again in round %d", p.a, p.b, prev+1, ri+1)
			}
			seen[p] = ri
		}

		byes := 0
		for team, count := range appearances {
			if count > 1 {
				return fmt.Errorf("round %d: team %d plays %d matches", ri+1, team, count)
			}
			if count == 0 {
				byes++
			}
		}
		if byes != wantByes {
			return fmt.Errorf("round %d: %d teams sit out, want %d", ri+1, byes, wantByes)
		}
	}

	if want := numTeams * (numTeams - 1) / 2; len(seen) != want {
		return fmt.Errorf("schedule covers %d pairs, want %d", len(seen), want)
	}
	return nil
}

// IsValid reports whether s passes every Check invariant.
func IsValid(s Schedule, numTeams int) bool {
	return Check(s, numTeams) == nil
}

// Clone returns a deep copy of s. The annealing driver and the perturbation
// operators depend on clones so the best schedule never aliases the working
// copy.
func (s Schedule) Clone() Schedule {
	var out Schedule
	if err := deepcopy.Copy(&out, s); err != nil {
		panic(fmt.Sprintf("cloning schedule: %v", err))
	}
	return out
}

// Opponent returns team's opponent in the given round. The second return is
// false when the team sits out that round (or the round is out of range).
func (s Schedule) Opponent(team, round int) (int, bool) {
	if round < 0 || round >= len(s) {
		return 0, false
	}
	for _, m := range s[round] {
		if m.Home == team {
			return m.Away, true
		}
		if m.Away == team {
			return m.Home, true
		}
	}
	return 0, false
}

package anneal

import (
	"math/rand"

	"github.com/fairdraw/fairdraw/internal/schedule"
)

// neighbor returns a perturbed deep copy of s; the input is never touched.
// Half the time it swaps one match between two rounds, half the time it
// flips the home/away orientation of a single match.
func neighbor(s schedule.Schedule, rng *rand.Rand, swapAttempts int) schedule.Schedule {
	out := s.Clone()
	if len(out) == 0 {
		return out
	}
	if rng.Float64() < 0.5 {
		swapMatches(out, rng, swapAttempts)
	} else {
		flipMatch(out, rng)
	}
	return out
}

// swapMatches exchanges one match between two distinct rounds, resampling
// up to attempts times until neither match shares a team with the rest of
// its new round. The schedule is left unchanged when no conflict-free swap
// turns up.
func swapMatches(s schedule.Schedule, rng *rand.Rand, attempts int) {
	if len(s) < 2 {
		return
	}
	for try := 0; try < attempts; try++ {
		r1 := rng.Intn(len(s))
		r2 := rng.Intn(len(s) - 1)
		if r2 >= r1 {
			r2++
		}
		if len(s[r1]) == 0 || len(s[r2]) == 0 {
			continue
		}
		m1 := rng.Intn(len(s[r1]))
		m2 := rng.Intn(len(s[r2]))
		if conflicts(s[r1], m1, s[r2][m2]) || conflicts(s[r2], m2, s[r1][m1]) {
			continue
		}
		s[r1][m1], s[r2][m2] = s[r2][m2], s[r1][m1]
		return
	}
}

// conflicts reports whether candidate shares a team with any match in
// round other than the one at skip.
func conflicts(round schedule.Round, skip int, candidate schedule.Match) bool {
	for i, m := range round {
		if i == skip {
			continue
		}
		if m.Home == candidate.Home || m.Home == candidate.Away ||
			m.Away == candidate.Home || m.Away == candidate.Away {
			return true
		}
	}
	return false
}

// flipMatch reverses the home/away orientation of one random match.
func flipMatch(s schedule.Schedule, rng *rand.Rand) {
	r := rng.Intn(len(s))
	if len(s[r]) == 0 {
		return
	}
	m := rng.Intn(len(s[r]))
	s[r][m].Home, s[r][m].Away = s[r][m].Away, s[r][m].Home
}

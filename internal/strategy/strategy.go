package strategy

import (
	"fmt"
	"math/rand"

	"github.com/fairdraw/fairdraw/internal/schedule"
)

// Builder produces a feasible starting schedule for the annealing search.
type Builder interface {
	Name() string
	Build(numTeams int, rng *rand.Rand) (schedule.Schedule, error)
}

// Get returns the named construction strategy.
func Get(name string) (Builder, error) {
	switch name {
	case "circle":
		return circle{}, nil
	case "shuffled":
		return shuffled{}, nil
	}
	return nil, fmt.Errorf("unknown strategy: %q", name)
}

// Names lists the registered strategies in the order they appear in help
// text.
func Names() []string {
	return []string{"circle", "shuffled"}
}

// Default returns the strategy used when a config names none.
func Default() Builder {
	return circle{}
}

type circle struct{}

func (circle) Name() string { return "circle" }

// Build ignores rng: the circle construction is deterministic.
func (circle) Build(numTeams int, _ *rand.Rand) (schedule.Schedule, error) {
	return schedule.Build(numTeams)
}

type shuffled struct{}

func (shuffled) Name() string { return "shuffled" }

// Build relabels the circle construction through a random permutation of
// team ids, so repeated runs start the search from different corners of
// the neighborhood while staying feasible.
func (shuffled) Build(numTeams int, rng *rand.Rand) (schedule.Schedule, error) {
	s, err := schedule.Build(numTeams)
	if err != nil {
		return nil, err
	}
	perm := rng.Perm(numTeams)
	for ri := range s {
		for mi := range s[ri] {
			s[ri][mi].Home = perm[s[ri][mi].Home]
			s[ri][mi].Away = perm[s[ri][mi].Away]
		}
	}
	return s, nil
}

package schedule

// Bye marks a round in which a team has no opponent.
const Bye = -1

// Grid expands a schedule into a per-team opponent table: row t, column r
// holds team t's opponent in round r, or Bye when the team sits out. The
// cost model and the report writers walk this shape instead of re-scanning
// rounds for every lookup.
func Grid(s Schedule, numTeams int) [][]int {
	grid := make([][]int, numTeams)
	for t := range grid {
		row := make([]int, len(s))
		for r := range row {
			row[r] = Bye
		}
		grid[t] = row
	}
	for r, round := range s {
		for _, m := range round {
			if m.Home >= 0 && m.Home < numTeams {
				grid[m.Home][r] = m.Away
			}
			if m.Away >= 0 && m.Away < numTeams {
				grid[m.Away][r] = m.Home
			}
		}
	}
	return grid
}

package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// BuildStandings reduces per-member totals into {name, score, percent}
// against the team's total. The divisor substitutes 1 when the total is
// zero or absent, so percent is NaN-free for any input; a missing name
// falls back to a placeholder embedding the person id. Order of the
// result is the order of the input; callers wanting a presentation order
// go through SortStandings.
func BuildStandings(members []MemberTotal, teamTotal float64) []Standing {
	divisor := teamTotal
	if divisor == 0 || math.IsNaN(divisor) {
		divisor = 1
	}

	standings := make([]Standing, 0, len(members))
	for _, m := range members {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("Member %s", m.Person)
		}

		percent := (m.Total / divisor) * 100
		if math.IsNaN(percent) || percent == 0 {
			percent = 0
		}

		standings = append(standings, Standing{
			ID:      m.Person,
			Name:    name,
			Score:   m.Total,
			Percent: percent,
		})
	}
	return standings
}

// SortStandings orders standings by the given field ("name", "score" or
// "percent") with ties broken by id so the order is deterministic.
func SortStandings(standings []Standing, field string, descending bool) {
	less := func(a, b Standing) bool {
		switch field {
		case "name":
			if a.Name != b.Name {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case "percent":
			if a.Percent != b.Percent {
				return a.Percent < b.Percent
			}
		default: // score
			if a.Score != b.Score {
				return a.Score < b.Score
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if descending {
			return less(standings[j], standings[i])
		}
		return less(standings[i], standings[j])
	})
}

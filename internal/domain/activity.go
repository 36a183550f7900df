package domain

import (
	"fmt"
	"math"
)

type Activity string

const (
	ActivityRunning  Activity = "running"
	ActivityWalking  Activity = "walking"
	ActivityCycling  Activity = "cycling"
	ActivitySwimming Activity = "swimming"
	ActivitySkating  Activity = "skating"
)

// Per-activity point multipliers applied to raw kilometers.
var activityMultipliers = map[Activity]float64{
	ActivityRunning:  2.0,
	ActivityWalking:  1.6,
	ActivityCycling:  1.25,
	ActivitySwimming: 3.0,
	ActivitySkating:  1.4,
}

func (a Activity) Multiplier() (float64, error) {
	m, ok := activityMultipliers[a]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity %q", ErrInvalidInput, string(a))
	}
	return m, nil
}

// SignedDistance computes the points for one ledger entry. Sign selects
// between logging activity (+1) and correcting it (-1).
func SignedDistance(distanceKm float64, activity Activity, sign int) (float64, error) {
	if sign != 1 && sign != -1 {
		return 0, fmt.Errorf("%w: sign must be +1 or -1", ErrInvalidInput)
	}
	if distanceKm == 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, fmt.Errorf("%w: distance must be a non-zero finite number", ErrInvalidInput)
	}
	mult, err := activity.Multiplier()
	if err != nil {
		return 0, err
	}
	return float64(sign) * distanceKm * mult, nil
}

// Team selectors. "none" is stored as an explicit NULL assignment, never
// defaulted silently. Ids 2 and 3 match the deployed table values.
const (
	TeamBlue = 2
	TeamRed  = 3
)

func ParseTeamSelector(s string) (*int, error) {
	switch s {
	case "none":
		return nil, nil
	case "A", "blue":
		t := TeamBlue
		return &t, nil
	case "B", "red":
		t := TeamRed
		return &t, nil
	}
	return nil, fmt.Errorf("%w: unknown team selector %q", ErrInvalidInput, s)
}

func ValidTeam(team int) bool {
	return team == TeamBlue || team == TeamRed
}

package game

import "github.com/tomz197/letterfall/internal/loop/config"

// TierFor returns the difficulty tier reached at the given score.
// Scores below every threshold get the initial speed and spawn rate.
func TierFor(score int) config.Tier {
	for _, t := range config.Tiers {
		if score >= t.MinScore {
			return t
		}
	}
	return config.Tier{
		MinScore:  0,
		Speed:     config.InitialSpeed,
		SpawnRate: config.InitialSpawnRate,
	}
}

// Package leveling maps cumulative XP to integer levels using a geometric
// per-level requirement curve. Every screen that shows "Level N" or a
// progress bar derives it from here.
package leveling

import "math"

const (
	BaseXP = 100
	Factor = 1.5

	// DefaultMaxLevel is the hard cap applied when deriving a level.
	DefaultMaxLevel = 100
)

// RequirementForLevel returns the XP needed to go from level-1 to level.
// Levels at or below zero require nothing.
func RequirementForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Round(BaseXP * math.Pow(Factor, float64(level-1))))
}

// CumulativeForLevel returns the total XP needed to reach level.
// Summed term by term: each requirement is rounded individually, so the
// cumulative is not a closed-form geometric series.
func CumulativeForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	total := 0
	for i := 1; i <= level; i++ {
		total += RequirementForLevel(i)
	}
	return total
}

// DeriveLevelFromXP returns the largest level in [0, maxLevel] whose
// cumulative requirement is covered by xpTotal. XP exactly at a threshold
// counts as having reached that level.
func DeriveLevelFromXP(xpTotal, maxLevel int) int {
	level := 0
	for level < maxLevel && xpTotal >= CumulativeForLevel(level+1) {
		level++
	}
	return level
}

// Progress describes how far into the current level a user is.
type Progress struct {
	WithinLevelXP   int     `json:"withinLevelXp"`
	NextRequirement int     `json:"nextRequirement"`
	Percent         float64 `json:"percent"`
}

// ProgressToNextLevel reports progress from level toward level+1 given the
// user's total XP.
func ProgressToNextLevel(xpTotal, level int) Progress {
	currentLevelXP := CumulativeForLevel(level)
	nextLevelXP := CumulativeForLevel(level + 1)
	withinLevelXP := xpTotal - currentLevelXP
	nextRequirement := nextLevelXP - currentLevelXP

	percent := 0.0
	if nextRequirement > 0 {
		percent = float64(withinLevelXP) / float64(nextRequirement) * 100
	}

	return Progress{
		WithinLevelXP:   withinLevelXP,
		NextRequirement: nextRequirement,
		Percent:         percent,
	}
}

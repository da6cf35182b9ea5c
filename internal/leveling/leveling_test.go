package leveling

import "testing"

func TestRequirementForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{1, 100},
		{2, 150},
		{3, 225},
		{4, 338},
	}
	for _, tt := range tests {
		if got := RequirementForLevel(tt.level); got != tt.want {
			t.Errorf("RequirementForLevel(%d) = %d; want %d", tt.level, got, tt.want)
		}
	}
}

func TestCumulativeForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{-3, 0},
		{0, 0},
		{1, 100},
		{2, 250},
		{3, 475},
	}
	for _, tt := range tests {
		if got := CumulativeForLevel(tt.level); got != tt.want {
			t.Errorf("CumulativeForLevel(%d) = %d; want %d", tt.level, got, tt.want)
		}
	}
}

func TestCumulativeMatchesRequirementSum(t *testing.T) {
	// The cumulative must be the iterative sum of individually rounded
	// terms, not a closed-form series.
	sum := 0
	for level := 1; level <= 50; level++ {
		sum += RequirementForLevel(level)
		if got := CumulativeForLevel(level); got != sum {
			t.Fatalf("CumulativeForLevel(%d) = %d; want running sum %d", level, got, sum)
		}
	}
}

func TestMonotonicity(t *testing.T) {
	prev := CumulativeForLevel(0)
	for level := 1; level <= 120; level++ {
		if RequirementForLevel(level) <= 0 {
			t.Errorf("RequirementForLevel(%d) = %d; want > 0", level, RequirementForLevel(level))
		}
		cur := CumulativeForLevel(level)
		if cur < prev {
			t.Errorf("CumulativeForLevel(%d) = %d < CumulativeForLevel(%d) = %d", level, cur, level-1, prev)
		}
		prev = cur
	}
}

func TestDeriveLevelFromXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{249, 1},
		{250, 2},
	}
	for _, tt := range tests {
		if got := DeriveLevelFromXP(tt.xp, DefaultMaxLevel); got != tt.want {
			t.Errorf("DeriveLevelFromXP(%d) = %d; want %d", tt.xp, got, tt.want)
		}
	}
}

func TestDeriveLevelRoundTrip(t *testing.T) {
	// XP exactly at a threshold counts as having reached that level.
	for level := 0; level <= DefaultMaxLevel; level++ {
		xp := CumulativeForLevel(level)
		if got := DeriveLevelFromXP(xp, DefaultMaxLevel); got != level {
			t.Errorf("DeriveLevelFromXP(CumulativeForLevel(%d)) = %d; want %d", level, got, level)
		}
	}
}

func TestDeriveLevelCap(t *testing.T) {
	xp := CumulativeForLevel(101)
	if got := DeriveLevelFromXP(xp, DefaultMaxLevel); got != 100 {
		t.Errorf("DeriveLevelFromXP(cumulative(101)) = %d; want capped 100", got)
	}
}

func TestProgressToNextLevel(t *testing.T) {
	// Level 1 spans [100, 250); 175 XP is halfway through.
	p := ProgressToNextLevel(175, 1)
	if p.WithinLevelXP != 75 {
		t.Errorf("WithinLevelXP = %d; want 75", p.WithinLevelXP)
	}
	if p.NextRequirement != 150 {
		t.Errorf("NextRequirement = %d; want 150", p.NextRequirement)
	}
	if p.Percent != 50 {
		t.Errorf("Percent = %v; want 50", p.Percent)
	}
}

func TestProgressZeroRequirement(t *testing.T) {
	// A non-positive requirement must not divide by zero.
	p := ProgressToNextLevel(0, -1)
	if p.Percent != 0 {
		t.Errorf("Percent = %v; want 0", p.Percent)
	}
}

package service

import "testing"

func TestScoreFor(t *testing.T) {
	tests := []struct {
		name        string
		baseXP      int
		timeSpentMs int64
		want        int
	}{
		{"under ten minutes earns the bonus", 100, 5 * 60 * 1000, 125},
		{"just inside the window", 100, 10*60*1000 - 1, 125},
		{"exactly ten minutes misses the bonus", 100, 10 * 60 * 1000, 100},
		{"over ten minutes", 100, 45 * 60 * 1000, 100},
		{"zero elapsed gets no bonus", 100, 0, 100},
		{"bonus truncates toward zero", 90, 1000, 112},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreFor(tt.baseXP, tt.timeSpentMs); got != tt.want {
				t.Errorf("ScoreFor(%d, %d) = %d; want %d", tt.baseXP, tt.timeSpentMs, got, tt.want)
			}
		})
	}
}

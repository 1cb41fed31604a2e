package service

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"two thirds", 2, 3, 66.67},
		{"one third", 1, 3, 33.33},
		{"one seventh", 1, 7, 14.29},
		{"zero questions", 0, 0, 0},
		{"half", 5, 10, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.correct, tt.total); got != tt.want {
				t.Errorf("Score(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

func TestRounding(t *testing.T) {
	if got := round1(66.66); got != 66.7 {
		t.Errorf("round1(66.66) = %v", got)
	}
	if got := round1(0.04); got != 0 {
		t.Errorf("round1(0.04) = %v", got)
	}
	if got := round2(100 * 2.0 / 3.0); got != 66.67 {
		t.Errorf("round2(200/3) = %v", got)
	}
}

package money

import "testing"

func TestRound2HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1.005, want: 1.01},
		{in: 2.675, want: 2.68},
		{in: -1.005, want: -1.01},
		{in: 10.994, want: 10.99},
		{in: 0, want: 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Fatalf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(63.45); got != 63.5 {
		t.Fatalf("Round1(63.45) = %v", got)
	}
	if got := Round1(31.54); got != 31.5 {
		t.Fatalf("Round1(31.54) = %v", got)
	}
}

func TestPercentOf(t *testing.T) {
	if got := PercentOf(500, 10); got != 50 {
		t.Fatalf("PercentOf(500, 10) = %v", got)
	}
	if got := PercentOf(333.33, 15); got != 50 {
		t.Fatalf("PercentOf(333.33, 15) = %v", got)
	}
}

func TestPercentFrom(t *testing.T) {
	if got := PercentFrom(50, 500); got != 10 {
		t.Fatalf("PercentFrom(50, 500) = %v", got)
	}
	if got := PercentFrom(50, 0); got != 0 {
		t.Fatalf("PercentFrom with zero base should be 0, got %v", got)
	}
}

func TestShare(t *testing.T) {
	if got := Share(100, 700, 1000); got != 70 {
		t.Fatalf("Share(100, 700, 1000) = %v", got)
	}
	if got := Share(100, 300, 1000); got != 30 {
		t.Fatalf("Share(100, 300, 1000) = %v", got)
	}
	if got := Share(100, 1, 0); got != 0 {
		t.Fatalf("Share with zero whole should be 0, got %v", got)
	}
}

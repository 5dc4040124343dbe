package hardware

import "testing"

func TestScale(t *testing.T) {
	t.Parallel()

	ref := Reference{CoreClock: 850, Clusters: 8, LinearIntensity: 100}

	tests := []struct {
		name      string
		slowest   int64
		fraction  float64
		wantRatio float64
		want      int
	}{
		{name: "twice as fast at half scale", slowest: 13600, fraction: 0.5, wantRatio: 2, want: 100},
		{name: "reference device", slowest: 6800, fraction: 1, wantRatio: 1, want: 100},
		{name: "floor after product", slowest: 3400, fraction: 0.33, wantRatio: 0.5, want: 16},
		{name: "zero fraction", slowest: 6800, fraction: 0, wantRatio: 1, want: 0},
		{name: "negative fraction passes through", slowest: 6800, fraction: -0.5, wantRatio: 1, want: -50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Scale(ref, tc.slowest, tc.fraction)
			if got.Ratio != tc.wantRatio {
				t.Fatalf("Ratio = %v, want %v", got.Ratio, tc.wantRatio)
			}
			if got.LinearIntensity != tc.want {
				t.Fatalf("LinearIntensity = %d, want %d", got.LinearIntensity, tc.want)
			}
		})
	}
}

func TestDefaultReference(t *testing.T) {
	t.Parallel()

	if got := DefaultReference().Throughput(); got != 6800 {
		t.Fatalf("reference throughput = %d, want 6800", got)
	}
}

func TestDescribeRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: "just as fast as reference"},
		{ratio: 2, want: "2.00× faster than reference"},
		{ratio: 0.5, want: "2.00× slower than reference"},
		{ratio: 0, want: "no measurable throughput"},
	}
	for _, tc := range tests {
		if got := DescribeRatio(tc.ratio); got != tc.want {
			t.Fatalf("DescribeRatio(%v) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

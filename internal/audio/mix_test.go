package audio

import (
	"math"
	"testing"
)

func TestLinearDecibelRoundTrip(t *testing.T) {
	for _, linear := range []float64{1.0, 0.5, 0.1, 0.01} {
		db := linearToDecibel(linear)
		back := decibelToLinear(db)
		if math.Abs(back-linear) > 1e-9 {
			t.Errorf("round trip %v -> %v db -> %v, want %v", linear, db, back, linear)
		}
	}

	if got := linearToDecibel(0); !math.IsInf(got, -1) {
		t.Errorf("linearToDecibel(0) = %v, want -Inf", got)
	}
	if got := decibelToLinear(math.Inf(-1)); got != 0 {
		t.Errorf("decibelToLinear(-Inf) = %v, want 0", got)
	}
}

func TestAttenuationLinear(t *testing.T) {
	cases := []struct {
		distance, min, max, want float64
	}{
		{0, 5, 50, 1},
		{5, 5, 50, 1},
		{50, 5, 50, 0},
		{100, 5, 50, 0},
		{27.5, 5, 50, 0.5}, // halfway between min and max
	}

	for _, tc := range cases {
		got := attenuationLinear(tc.distance, tc.min, tc.max)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("attenuationLinear(%v, %v, %v) = %v, want %v", tc.distance, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestGainStreamerScalesSamples(t *testing.T) {
	src := &sliceStreamer{samples: [][2]float64{{1, 1}, {0.5, -0.5}}}
	g := &gainStreamer{streamer: src, gain: 0.5}

	buf := make([][2]float64, 2)
	n, ok := g.Stream(buf)
	if n != 2 || !ok {
		t.Fatalf("Stream = %d, %v, want 2, true", n, ok)
	}
	if buf[0][0] != 0.5 || buf[0][1] != 0.5 {
		t.Errorf("buf[0] = %v, want [0.5 0.5]", buf[0])
	}
	if buf[1][0] != 0.25 || buf[1][1] != -0.25 {
		t.Errorf("buf[1] = %v, want [0.25 -0.25]", buf[1])
	}
}

func TestSliceStreamerExhausts(t *testing.T) {
	s := &sliceStreamer{samples: [][2]float64{{1, 1}}}
	buf := make([][2]float64, 4)

	n, ok := s.Stream(buf)
	if n != 1 || !ok {
		t.Fatalf("first Stream = %d, %v, want 1, true", n, ok)
	}

	n, ok = s.Stream(buf)
	if n != 0 || ok {
		t.Fatalf("second Stream = %d, %v, want 0, false", n, ok)
	}
}

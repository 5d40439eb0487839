package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// linearToDecibel converts a linear 0..1 volume slider into a decibel gain,
// matching the original's linear_to_decibel: silence below or at zero,
// 20*log10(linear) otherwise.
func linearToDecibel(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

func decibelToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}

// attenuationLinear computes the 0..1 gain for a sound at distance from a
// listener given minDistance (full volume inside this radius) and
// maxDistance (silent at or beyond this radius), matching the original's
// SpatialTrackDistances + Easing::Linear attenuation curve.
func attenuationLinear(distance, minDistance, maxDistance float64) float64 {
	if distance <= minDistance {
		return 1
	}
	if distance >= maxDistance || maxDistance <= minDistance {
		return 0
	}
	return 1 - (distance-minDistance)/(maxDistance-minDistance)
}

// gainStreamer scales every sample pair of an underlying beep.Streamer by a
// fixed linear gain. No mixing/spatialization library exists in the pack
// (the original's kira+cpal backend has no Go equivalent), so distance
// attenuation and master/bus volume are applied this way rather than
// through a borrowed DSP graph.
type gainStreamer struct {
	streamer beep.Streamer
	gain     float64
}

func (g *gainStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] *= g.gain
		samples[i][1] *= g.gain
	}
	return n, ok
}

func (g *gainStreamer) Err() error { return g.streamer.Err() }

// sliceStreamer streams a fully-decoded, fixed sample buffer once, matching
// the original's "already-decoded StaticSoundData" playback path.
type sliceStreamer struct {
	samples [][2]float64
	pos     int
}

func (s *sliceStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.samples) {
		return 0, false
	}
	n = copy(samples, s.samples[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error { return nil }

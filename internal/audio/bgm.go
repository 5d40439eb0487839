package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// bgmState mirrors the original's implicit background-music state: no
// track, a track actively playing, a track mid fade-out, or a track that
// finished fading and is waiting to be replaced.
type bgmState int

const (
	bgmNone bgmState = iota
	bgmPlaying
	bgmStopping
	bgmStopped
)

type backgroundMusic struct {
	trackName string
	streamer  beep.StreamSeekCloser
	state     bgmState
	stopAt    time.Time
}

// loopShaved wraps a streamer so that it loops back to the start
// loopShave before the underlying stream would actually end, working
// around players that drop a track as soon as it reports completion
// instead of looping a defined loop region (spec.md §4.J note on
// BGMLoopShave).
type loopShaved struct {
	beep.StreamSeekCloser
	format    beep.Format
	loopShave time.Duration
}

func newLoopShaved(s beep.StreamSeekCloser, format beep.Format, loopShave time.Duration) *loopShaved {
	return &loopShaved{StreamSeekCloser: s, format: format, loopShave: loopShave}
}

func (l *loopShaved) Stream(samples [][2]float64) (n int, ok bool) {
	total := l.Len()
	shaveSamples := l.format.SampleRate.N(l.loopShave)
	loopEnd := total - shaveSamples
	if loopEnd < 1 {
		loopEnd = total
	}

	pos := l.Position()
	if pos >= loopEnd {
		if err := l.Seek(0); err != nil {
			return 0, false
		}
	}

	return l.StreamSeekCloser.Stream(samples)
}

// Package chime plays a short notification tone when an assistant reply
// arrives.
package chime

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"
)

const (
	SampleRate = beep.SampleRate(44100)
	Frequency  = 880.0
	Duration   = 120 * time.Millisecond
	Volume     = 0.2
)

// Tone returns a mono sine at freq Hz lasting d, with a linear fade out so
// it does not click at the end.
func Tone(sr beep.SampleRate, freq float64, d time.Duration, volume float64) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.Take(total, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			t := float64(pos) / float64(sr)
			env := 1 - float64(pos)/float64(total)
			v := volume * env * math.Sin(2*math.Pi*freq*t)
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	}))
}

// Player owns the speaker. The first Play initialises it; if that fails the
// player stays silent for the rest of the process.
type Player struct {
	logger *zap.Logger

	once     sync.Once
	disabled bool
	init     func(beep.SampleRate, int) error
	play     func(...beep.Streamer)
}

func New(logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{logger: logger, init: speaker.Init, play: speaker.Play}
}

// Play starts the tone and returns without waiting for it. done, if not
// nil, is closed when the tone has finished or immediately when disabled.
func (p *Player) Play() (done <-chan struct{}) {
	ch := make(chan struct{})
	p.once.Do(func() {
		if err := p.init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
			p.logger.Warn("audio unavailable, chime disabled", zap.Error(err))
			p.disabled = true
		}
	})
	if p.disabled {
		close(ch)
		return ch
	}
	p.play(beep.Seq(Tone(SampleRate, Frequency, Duration, Volume), beep.Callback(func() {
		close(ch)
	})))
	return ch
}

// Disabled reports whether initialisation failed.
func (p *Player) Disabled() bool { return p.disabled }

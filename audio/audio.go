package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/hoshinonyaruko/snake-solo/snake"
)

// SampleRate 输出采样率
const SampleRate = beep.SampleRate(44100)

const (
	eatNoteDuration   = 60 * time.Millisecond
	deathNoteDuration = 400 * time.Millisecond
)

// Player 吃到食物和死亡时的提示音
type Player struct {
	play func(beep.Streamer)
}

// NewPlayer 初始化扬声器，失败时返回静音的 Player 和错误，游戏可以没有声音
func NewPlayer() (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return &Player{}, fmt.Errorf("audio init: %w", err)
	}
	return &Player{play: func(s beep.Streamer) { speaker.Play(s) }}, nil
}

// Close 释放扬声器
func (p *Player) Close() {
	if p.play != nil {
		speaker.Close()
		p.play = nil
	}
}

func (p *Player) Enabled() bool {
	return p.play != nil
}

// OnEvents 根据tick事件播放声音
func (p *Player) OnEvents(ev snake.Events) {
	if p.play == nil {
		return
	}
	var s beep.Streamer
	var err error
	switch {
	case ev.Died:
		s, err = DeathSound(SampleRate)
	case ev.Ate:
		s, err = EatSound(SampleRate)
	default:
		return
	}
	if err != nil {
		return
	}
	p.play(s)
}

// EatSound 两个上行的短音
func EatSound(rate beep.SampleRate) (beep.Streamer, error) {
	n1, err := tone(rate, 880, eatNoteDuration, 0.4)
	if err != nil {
		return nil, err
	}
	n2, err := tone(rate, 1318.51, eatNoteDuration, 0.4)
	if err != nil {
		return nil, err
	}
	return beep.Seq(n1, n2), nil
}

// DeathSound 一个低沉的长音
func DeathSound(rate beep.SampleRate) (beep.Streamer, error) {
	return tone(rate, 110, deathNoteDuration, 0.6)
}

func tone(rate beep.SampleRate, freq float64, d time.Duration, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	// 振幅乘以 vol：Base^Volume == vol
	return &effects.Volume{
		Streamer: beep.Take(rate.N(d), sine),
		Base:     2,
		Volume:   math.Log2(vol),
	}, nil
}

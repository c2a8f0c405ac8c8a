package sa

import (
	"fmt"
	"math"
)

// Temperature - контроллер температуры отжига.
// Температура зависит только от номера итерации и ограничена снизу
// значением T0/N.
type Temperature struct {
	mode       Mode
	initial    float64
	iterations int
	decay      float64
	gradualA   float64
	gradualN   float64

	min  float64
	iter int
}

func NewTemperature(cfg Config) (*Temperature, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Temperature{
		mode:       cfg.Mode,
		initial:    cfg.InitialTemperature,
		iterations: cfg.Iterations,
		decay:      cfg.DecayConstant,
		gradualA:   cfg.GradualA,
		gradualN:   cfg.GradualN,
		min:        cfg.InitialTemperature / float64(cfg.Iterations),
	}, nil
}

// Value возвращает текущую температуру.
func (t *Temperature) Value() float64 {
	i := float64(t.iter)

	var v float64
	switch t.mode {
	case ModeLinear:
		v = t.initial * (1 - i/float64(t.iterations))
	case ModeDecay:
		v = t.initial * math.Pow(t.decay, i)
	case ModeGradual:
		v = t.initial * (1 - (i/t.gradualA)*t.gradualN)
	default:
		panic(fmt.Sprintf("неизвестный режим %v", t.mode))
	}
	return math.Max(t.min, v)
}

// Probability - вероятность принятия ухудшающего решения (критерий Метрополиса).
// Вызывается только при newLength >= oldLength.
func (t *Temperature) Probability(oldLength, newLength int) float64 {
	return math.Exp(-float64(newLength-oldLength) / t.Value())
}

// Advance переходит к следующей итерации.
func (t *Temperature) Advance() { t.iter++ }

func (t *Temperature) Iteration() int { return t.iter }

func (t *Temperature) Min() float64 { return t.min }

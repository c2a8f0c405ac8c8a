package sa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrUnknownMode возвращается для неизвестного режима обновления температуры.
	ErrUnknownMode = errors.New("неизвестный режим обновления температуры")
	// ErrInvalidConfig оборачивает ошибки валидации числовых параметров.
	ErrInvalidConfig = errors.New("некорректная конфигурация отжига")
)

// Mode - режим обновления температуры
type Mode int

const (
	ModeLinear Mode = iota
	ModeDecay
	ModeGradual
)

var modeNames = map[Mode]string{
	ModeLinear:  "linear",
	ModeDecay:   "decay",
	ModeGradual: "gradual",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes возвращает все режимы в порядке объявления.
func Modes() []Mode {
	return []Mode{ModeLinear, ModeDecay, ModeGradual}
}

// ParseMode разбирает имя режима. Неизвестное имя - ошибка конфигурации.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes() {
		if modeNames[m] == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w %q; доступные: linear, decay, gradual", ErrUnknownMode, s)
}

type Config struct {
	Mode               Mode
	InitialTemperature float64
	Iterations         int

	DecayConstant float64
	GradualA      float64
	GradualN      float64

	// Verify включает проверку инвариантов каждого принятого расписания.
	Verify bool
}

func DefaultConfig() Config {
	return Config{
		Mode:               ModeLinear,
		InitialTemperature: 10,
		Iterations:         100_000,

		DecayConstant: 0.5,
		GradualA:      1000,
		GradualN:      2,
	}
}

// Validate собирает все найденные ошибки, а не только первую.
func (c Config) Validate() error {
	var result *multierror.Error

	if _, ok := modeNames[c.Mode]; !ok {
		result = multierror.Append(result, fmt.Errorf("%w %v", ErrUnknownMode, c.Mode))
	}
	if c.Iterations <= 0 {
		result = multierror.Append(result, fmt.Errorf(
			"%w: Iterations должно быть > 0 (получено %d)",
			ErrInvalidConfig, c.Iterations,
		))
	}
	if c.InitialTemperature <= 0 {
		result = multierror.Append(result, fmt.Errorf(
			"%w: InitialTemperature должно быть > 0 (получено %f)",
			ErrInvalidConfig, c.InitialTemperature,
		))
	}

	// c >= 1 и n <= 0 допустимы: температура не убывает, но остаётся
	// положительной благодаря нижней границе T0/N.
	switch c.Mode {
	case ModeDecay:
		if c.DecayConstant <= 0 {
			result = multierror.Append(result, fmt.Errorf(
				"%w: DecayConstant должно быть > 0 (получено %f)",
				ErrInvalidConfig, c.DecayConstant,
			))
		}
	case ModeGradual:
		if c.GradualA <= 0 {
			result = multierror.Append(result, fmt.Errorf(
				"%w: GradualA должно быть > 0 (получено %f)",
				ErrInvalidConfig, c.GradualA,
			))
		}
	}

	return result.ErrorOrNil()
}

package sa

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"jobShop/internal/jobshop"
	"jobShop/internal/logger"
	"jobShop/internal/opt"
)

// Event - состояние одной итерации, передаётся в Hook.
type Event struct {
	Iteration   int
	Move        Move
	Current     int // длина текущего расписания до итерации
	Candidate   int // длина кандидата
	Temperature float64
	// Probability и Draw заполняются только для ухудшающих кандидатов.
	Probability float64
	Draw        float64
	Accepted    bool
	Improved    bool // кандидат строго лучше текущего
	NewBest     bool
	// Schedule - копия текущего расписания после итерации.
	Schedule *jobshop.Schedule
}

// Solver - структура реализации алгоритма имитации отжига для job-shop
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	// Hook вызывается после каждой итерации, вне построения расписаний.
	Hook func(Event)
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - основной цикл отжига.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	temp, err := NewTemperature(s.Cfg)
	if err != nil {
		return opt.Result{}, err
	}

	runID := uuid.NewString()
	ctx = logger.WithValues(ctx, "run", runID, "instance", inst.Name)

	// Начальное решение - построение с пустого расписания
	curr := jobshop.Build(inst, nil)
	currCost := curr.Makespan()

	// Расписания после построения не изменяются, поэтому best может
	// ссылаться на то же расписание, что и curr.
	best, bestCost := curr, currCost

	evals, accepted, worsened := 1, 0, 0
	logger.Info(ctx, "Начальное расписание построено",
		"makespan", currCost,
		"jobs", len(inst.Jobs),
		"machines", inst.Machines,
		"mode", s.Cfg.Mode.String(),
	)

	result := func(iter int, meta map[string]any) opt.Result {
		return opt.Result{
			RunID:        runID,
			Schedule:     curr,
			Makespan:     currCost,
			Best:         best,
			BestMakespan: bestCost,
			Evaluations:  evals,
			Iterations:   iter,
			Accepted:     accepted,
			Worsened:     worsened,
			Duration:     time.Since(start),
			Meta:         meta,
		}
	}

	for iter := 0; iter < s.Cfg.Iterations; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return result(iter, map[string]any{
				"stopped": "context",
				"T":       temp.Value(),
			}), err
		}

		cand, move := Neighbour(inst, curr, s.Rng)
		candCost := cand.Makespan()
		evals++

		ev := Event{
			Iteration:   iter,
			Move:        move,
			Current:     currCost,
			Candidate:   candCost,
			Temperature: temp.Value(),
		}
		if candCost <= currCost {
			// Не ухудшающее решение принимаем всегда
			ev.Accepted = true
			ev.Improved = candCost < currCost
		} else {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			ev.Probability = temp.Probability(currCost, candCost)
			ev.Draw = s.Rng.Float64()
			ev.Accepted = ev.Probability > ev.Draw
		}

		if ev.Accepted {
			if s.Cfg.Verify {
				if err := cand.Verify(inst); err != nil {
					return result(iter, nil), fmt.Errorf("итерация %d, ход %+v: %w", iter, move, err)
				}
			}
			accepted++
			if candCost > currCost {
				worsened++
			}
			curr, currCost = cand, candCost

			// Обновление глобально лучшего решения
			if currCost < bestCost {
				best, bestCost = curr, currCost
				ev.NewBest = true
				logger.Debug(ctx, "Найдено лучшее расписание", "iteration", iter, "makespan", bestCost)
			}
		}

		if s.Hook != nil {
			// Копия: изменения в Hook не затрагивают состояние поиска
			ev.Schedule = curr.Clone()
			s.Hook(ev)
		}
		temp.Advance()
	}

	logger.Info(ctx, "Отжиг завершён",
		"makespan", currCost,
		"best", bestCost,
		"accepted", accepted,
		"worsened", worsened,
		"duration", time.Since(start),
	)

	return result(s.Cfg.Iterations, map[string]any{
		"mode":                s.Cfg.Mode.String(),
		"initial_temperature": s.Cfg.InitialTemperature,
		"min_temperature":     temp.Min(),
		"decay_constant":      s.Cfg.DecayConstant,
		"gradual_constant_a":  s.Cfg.GradualA,
		"gradual_constant_n":  s.Cfg.GradualN,
	}), nil
}

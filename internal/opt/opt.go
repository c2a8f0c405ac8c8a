package opt

import (
	"context"
	"time"

	"jobShop/internal/jobshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *jobshop.Instance) (Result, error)
}

// Result - итог одного запуска.
// Schedule - последнее принятое расписание, Best - лучшее из встреченных.
type Result struct {
	RunID string

	Schedule *jobshop.Schedule
	Makespan int

	Best         *jobshop.Schedule
	BestMakespan int

	Evaluations int
	Iterations  int
	Accepted    int
	Worsened    int
	Duration    time.Duration
	Meta        map[string]any
}

package sa

import (
	"math/rand"

	"jobShop/internal/jobshop"
)

// Move описывает перемещение одной операции.
type Move struct {
	Job     int
	Step    int
	Machine int
	// From - старое начало операции, To - начало после перемещения
	// (до достройки расписания).
	From int
	To   int
}

// Neighbour формирует соседнее расписание: выбирает случайную операцию,
// сдвигает её к окончанию предыдущего шага работы, замораживает всё, что
// заканчивается не позже этого момента, и достраивает остальное.
// current не изменяется.
func Neighbour(inst *jobshop.Instance, current *jobshop.Schedule, rng *rand.Rand) (*jobshop.Schedule, Move) {
	nonEmpty := make([]int, 0, current.Machines())
	for m, q := range current.Queues {
		if len(q) > 0 {
			nonEmpty = append(nonEmpty, m)
		}
	}
	if len(nonEmpty) == 0 {
		panic("соседнее решение для пустого расписания")
	}

	m := nonEmpty[rng.Intn(len(nonEmpty))]
	return relocate(inst, current, m, rng.Intn(len(current.Queues[m])))
}

// relocate перемещает операцию current.Queues[m][pos] и достраивает расписание.
func relocate(inst *jobshop.Instance, current *jobshop.Schedule, m, pos int) (*jobshop.Schedule, Move) {
	op := current.Queues[m][pos]
	move := Move{Job: op.Job, Step: op.Step, Machine: m, From: op.Start}

	cand := jobshop.NewSchedule(current.Machines())

	if op.Step == 0 {
		// Первый шаг работы ставится в начало времени
		op.Start, op.IdleBefore, op.Stop = 0, 0, op.Duration
		cand.Queues[m] = append(cand.Queues[m], op)
	} else {
		prev, ok := current.Operation(op.Job, op.Step-1)
		if !ok {
			panic("предыдущий шаг работы отсутствует в расписании")
		}

		// Замороженный префикс: операции, закончившиеся не позже prev.
		// Окончания в очереди не убывают, поэтому это начало каждой очереди.
		for qm, q := range current.Queues {
			for _, x := range q {
				if x.Stop > prev.Stop {
					break
				}
				if x.Job == op.Job && x.Step == op.Step {
					continue
				}
				x.IdleBefore = x.Start - queueEnding(cand.Queues[qm])
				cand.Queues[qm] = append(cand.Queues[qm], x)
			}
		}

		op.Start = prev.Stop
		op.IdleBefore = op.Start - queueEnding(cand.Queues[m])
		op.Stop = op.Start + op.Duration
		cand.Queues[m] = append(cand.Queues[m], op)
	}
	move.To = op.Start

	jobshop.BuildInto(inst, cand)
	return cand, move
}

func queueEnding(q []jobshop.Operation) int {
	if len(q) == 0 {
		return 0
	}
	return q[len(q)-1].Stop
}

package jobshop

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidSchedule marks every problem reported by Schedule.Verify.
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule holds one queue per machine, each ordered by start time.
// Queues store operations by value: two schedules never share an operation.
type Schedule struct {
	Queues [][]Operation
}

func NewSchedule(machines int) *Schedule {
	return &Schedule{Queues: make([][]Operation, machines)}
}

func (s *Schedule) Machines() int { return len(s.Queues) }

// Clone returns a deep copy of s.
func (s *Schedule) Clone() *Schedule {
	c := &Schedule{Queues: make([][]Operation, len(s.Queues))}
	for m, q := range s.Queues {
		if len(q) > 0 {
			c.Queues[m] = append(make([]Operation, 0, len(q)), q...)
		}
	}
	return c
}

// Len returns the number of scheduled operations.
func (s *Schedule) Len() int {
	n := 0
	for _, q := range s.Queues {
		n += len(q)
	}
	return n
}

// Makespan returns the latest stop time over all scheduled operations.
func (s *Schedule) Makespan() int {
	ms := 0
	for _, q := range s.Queues {
		for _, op := range q {
			if op.Stop > ms {
				ms = op.Stop
			}
		}
	}
	return ms
}

// Find returns the queue position of operation job/step.
func (s *Schedule) Find(job, step int) (machine, pos int, ok bool) {
	for m, q := range s.Queues {
		for i, op := range q {
			if op.Job == job && op.Step == step {
				return m, i, true
			}
		}
	}
	return 0, 0, false
}

// Operation returns a copy of the scheduled operation job/step.
func (s *Schedule) Operation(job, step int) (Operation, bool) {
	m, i, ok := s.Find(job, step)
	if !ok {
		return Operation{}, false
	}
	return s.Queues[m][i], true
}

// Contains reports whether job/step is queued on machine m.
func (s *Schedule) Contains(m, job, step int) bool {
	for _, op := range s.Queues[m] {
		if op.Job == job && op.Step == step {
			return true
		}
	}
	return false
}

// Operations returns copies of all scheduled operations, machine by machine.
func (s *Schedule) Operations() []Operation {
	out := make([]Operation, 0, s.Len())
	for _, q := range s.Queues {
		out = append(out, q...)
	}
	return out
}

// Verify checks that s is a complete schedule of inst: every operation is
// queued exactly once on its own machine, queues do not overlap, idle gaps
// match the queue and job steps run in order.
func (s *Schedule) Verify(inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	var result *multierror.Error
	if len(s.Queues) != inst.Machines {
		return fmt.Errorf("%w: %d queues for %d machines", ErrInvalidSchedule, len(s.Queues), inst.Machines)
	}

	type key struct{ job, step int }
	seen := make(map[key]Operation, inst.Operations())

	for m, q := range s.Queues {
		prevStop := 0
		for i, op := range q {
			if !op.Scheduled {
				result = multierror.Append(result, fmt.Errorf("%w: M%d[%d] %v is not scheduled", ErrInvalidSchedule, m, i, op))
			}
			if op.Machine != m {
				result = multierror.Append(result, fmt.Errorf("%w: M%d[%d] %v belongs to M%d", ErrInvalidSchedule, m, i, op, op.Machine))
			}
			if op.Stop != op.Start+op.Duration {
				result = multierror.Append(result, fmt.Errorf("%w: M%d[%d] %v: stop != start+duration", ErrInvalidSchedule, m, i, op))
			}
			if op.Start < prevStop {
				result = multierror.Append(result, fmt.Errorf("%w: M%d[%d] %v overlaps previous stop %d", ErrInvalidSchedule, m, i, op, prevStop))
			}
			if op.IdleBefore != op.Start-prevStop {
				result = multierror.Append(result, fmt.Errorf("%w: M%d[%d] %v: idle before must be %d", ErrInvalidSchedule, m, i, op, op.Start-prevStop))
			}
			k := key{op.Job, op.Step}
			if _, dup := seen[k]; dup {
				result = multierror.Append(result, fmt.Errorf("%w: %d/%d queued twice", ErrInvalidSchedule, op.Job, op.Step))
			}
			seen[k] = op
			prevStop = op.Stop
		}
	}

	for j, job := range inst.Jobs {
		prevStop := 0
		for st, def := range job {
			op, ok := seen[key{j, st}]
			if !ok {
				result = multierror.Append(result, fmt.Errorf("%w: %d/%d is missing", ErrInvalidSchedule, j, st))
				continue
			}
			delete(seen, key{j, st})
			if op.Machine != def.Machine || op.Duration != def.Duration {
				result = multierror.Append(result, fmt.Errorf("%w: %v does not match its definition %v", ErrInvalidSchedule, op, def))
			}
			if op.Start < prevStop {
				result = multierror.Append(result, fmt.Errorf("%w: %v starts before step %d stops at %d", ErrInvalidSchedule, op, st-1, prevStop))
			}
			prevStop = op.Stop
		}
	}
	for k := range seen {
		result = multierror.Append(result, fmt.Errorf("%w: %d/%d is not part of the instance", ErrInvalidSchedule, k.job, k.step))
	}

	return result.ErrorOrNil()
}

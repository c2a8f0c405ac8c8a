package jobshop

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrMalformedInstance is returned when an instance has inconsistent
// dimensions, step indices or machine ids.
var ErrMalformedInstance = errors.New("malformed instance")

// Operation is one step of a job bound to a machine for a fixed duration.
// Job, Step, Machine and Duration never change; Start, Stop and IdleBefore
// are only meaningful when Scheduled is set.
type Operation struct {
	Job      int
	Step     int
	Machine  int
	Duration int

	Start      int
	Stop       int
	IdleBefore int
	Scheduled  bool
}

func (op Operation) String() string {
	if !op.Scheduled {
		return fmt.Sprintf("%d/%d@M%d(%d)", op.Job, op.Step, op.Machine, op.Duration)
	}
	return fmt.Sprintf("%d/%d@M%d: %d-%d, idle:%d", op.Job, op.Step, op.Machine, op.Start, op.Stop, op.IdleBefore)
}

// Job is the canonical, unscheduled sequence of a job's operations.
type Job []Operation

type Instance struct {
	Name     string
	Machines int
	Jobs     []Job
}

func NewInstance(name string, machines int, jobs []Job) (*Instance, error) {
	inst := &Instance{Name: name, Machines: machines, Jobs: jobs}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: instance is nil", ErrMalformedInstance)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("%w: machines must be > 0 (got %d)", ErrMalformedInstance, inst.Machines)
	}
	if len(inst.Jobs) == 0 {
		return fmt.Errorf("%w: jobs must be > 0", ErrMalformedInstance)
	}
	for j, job := range inst.Jobs {
		if len(job) == 0 {
			return fmt.Errorf("%w: job %d has no operations", ErrMalformedInstance, j)
		}
		for s, op := range job {
			if op.Job != j || op.Step != s {
				return fmt.Errorf("%w: job %d step %d is labelled %d/%d", ErrMalformedInstance, j, s, op.Job, op.Step)
			}
			if op.Machine < 0 || op.Machine >= inst.Machines {
				return fmt.Errorf("%w: job %d step %d: machine %d out of range [0,%d)", ErrMalformedInstance, j, s, op.Machine, inst.Machines)
			}
			if op.Duration < 0 {
				return fmt.Errorf("%w: job %d step %d: duration must be >= 0 (got %d)", ErrMalformedInstance, j, s, op.Duration)
			}
			if op.Scheduled {
				return fmt.Errorf("%w: job %d step %d is already scheduled", ErrMalformedInstance, j, s)
			}
		}
	}
	return nil
}

// Operations returns the total number of operations over all jobs.
func (inst *Instance) Operations() int {
	n := 0
	for _, job := range inst.Jobs {
		n += len(job)
	}
	return n
}

// NewJob builds job j from (machine, duration) pairs.
func NewJob(j int, machines, durations []int) Job {
	job := make(Job, len(machines))
	for s := range machines {
		job[s] = Operation{Job: j, Step: s, Machine: machines[s], Duration: durations[s]}
	}
	return job
}

// RandomInstance generates a square instance: every job visits every machine
// once, in a random order, with durations drawn from [minTime, maxTime].
func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("random source is nil")
	}
	if minTime < 0 || maxTime < 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	span := maxTime - minTime + 1
	js := make([]Job, jobs)
	for j := range js {
		order := rng.Perm(machines)
		durations := make([]int, machines)
		for s := range durations {
			durations[s] = minTime
			if span > 1 {
				durations[s] += rng.Intn(span)
			}
		}
		js[j] = NewJob(j, order, durations)
	}
	inst, err := NewInstance(fmt.Sprintf("random-%dx%d", jobs, machines), machines, js)
	if err != nil {
		panic(err)
	}
	return inst
}

package jobshop

import "slices"

// Build returns a complete schedule of inst. Operations already present in
// seed are kept as they are; the rest are inserted job by job, step by step.
// seed is not modified and may be nil.
func Build(inst *Instance, seed *Schedule) *Schedule {
	var s *Schedule
	if seed == nil {
		s = NewSchedule(inst.Machines)
	} else {
		s = seed.Clone()
	}
	BuildInto(inst, s)
	return s
}

// BuildInto completes s in place.
func BuildInto(inst *Instance, s *Schedule) {
	type key struct{ job, step int }

	// Stop times of operations present before the build. Squeezing only
	// changes IdleBefore of existing entries, so these stay valid.
	present := make(map[key]int, s.Len())
	for _, q := range s.Queues {
		for _, op := range q {
			present[key{op.Job, op.Step}] = op.Stop
		}
	}

	for _, job := range inst.Jobs {
		ready := 0
		for _, op := range job {
			if stop, ok := present[key{op.Job, op.Step}]; ok && s.Contains(op.Machine, op.Job, op.Step) {
				ready = stop
				continue
			}
			var placed Operation
			s.Queues[op.Machine], placed = insert(s.Queues[op.Machine], op, ready)
			ready = placed.Stop
		}
	}
}

// insert places op on queue q no earlier than ready. The first gap that
// fits op without delaying the entry behind it wins; otherwise op is
// appended.
func insert(q []Operation, op Operation, ready int) ([]Operation, Operation) {
	op.Scheduled = true

	for i := range q {
		x := &q[i]
		if x.Start <= ready {
			continue
		}
		if x.IdleBefore < op.Duration || x.Start-op.Duration < ready {
			continue
		}
		prevStop := 0
		if i > 0 {
			prevStop = q[i-1].Stop
		}
		op.Start = max(prevStop, ready)
		op.IdleBefore = op.Start - prevStop
		op.Stop = op.Start + op.Duration
		x.IdleBefore = x.Start - op.Stop
		return slices.Insert(q, i, op), op
	}

	if len(q) == 0 {
		op.Start = ready
		op.IdleBefore = ready
	} else {
		last := q[len(q)-1]
		if last.Stop <= ready {
			op.Start = ready
			op.IdleBefore = ready - last.Stop
		} else {
			op.Start = last.Stop
			op.IdleBefore = 0
		}
	}
	op.Stop = op.Start + op.Duration
	return append(q, op), op
}

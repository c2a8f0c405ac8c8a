package jobshop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoByTwo(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance("2x2", 2, []Job{
		NewJob(0, []int{0, 1}, []int{3, 2}),
		NewJob(1, []int{1, 0}, []int{4, 1}),
	})
	require.NoError(t, err)
	return inst
}

func TestBuild_TwoJobsTwoMachines(t *testing.T) {
	inst := twoByTwo(t)

	s := Build(inst, nil)
	require.NoError(t, s.Verify(inst))

	// J0/0 opens M0 at 0; J0/1 waits for it and opens M1 at 3. J1/0 does
	// not fit the 3-unit gap before J0/1 and is appended at 5; J1/1 then
	// waits for it on M0.
	assert.Equal(t, []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 3, Start: 0, Stop: 3, IdleBefore: 0, Scheduled: true},
		{Job: 1, Step: 1, Machine: 0, Duration: 1, Start: 9, Stop: 10, IdleBefore: 6, Scheduled: true},
	}, s.Queues[0])
	assert.Equal(t, []Operation{
		{Job: 0, Step: 1, Machine: 1, Duration: 2, Start: 3, Stop: 5, IdleBefore: 3, Scheduled: true},
		{Job: 1, Step: 0, Machine: 1, Duration: 4, Start: 5, Stop: 9, IdleBefore: 0, Scheduled: true},
	}, s.Queues[1])
	assert.Equal(t, 10, s.Makespan())
}

func TestBuild_SingleOperation(t *testing.T) {
	inst, err := NewInstance("1x1", 1, []Job{NewJob(0, []int{0}, []int{5})})
	require.NoError(t, err)

	s := Build(inst, nil)
	require.NoError(t, s.Verify(inst))
	assert.Equal(t, 5, s.Makespan())
}

func TestInsert_SqueezeIntoGap(t *testing.T) {
	q := []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 5, Start: 0, Stop: 5, IdleBefore: 0, Scheduled: true},
		{Job: 1, Step: 0, Machine: 0, Duration: 5, Start: 10, Stop: 15, IdleBefore: 5, Scheduled: true},
	}

	q, placed := insert(q, Operation{Job: 2, Step: 1, Machine: 0, Duration: 4}, 5)

	require.Len(t, q, 3)
	assert.Equal(t, placed, q[1])
	assert.Equal(t, 5, placed.Start)
	assert.Equal(t, 9, placed.Stop)
	assert.Equal(t, 0, placed.IdleBefore)
	assert.Equal(t, 1, q[2].IdleBefore)
	assert.Equal(t, 10, q[2].Start)
}

func TestInsert_SqueezeAtHead(t *testing.T) {
	q := []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 2, Start: 6, Stop: 8, IdleBefore: 6, Scheduled: true},
	}

	q, placed := insert(q, Operation{Job: 1, Step: 1, Machine: 0, Duration: 3}, 2)

	require.Len(t, q, 2)
	assert.Equal(t, placed, q[0])
	assert.Equal(t, 2, placed.Start)
	assert.Equal(t, 2, placed.IdleBefore)
	assert.Equal(t, 5, placed.Stop)
	assert.Equal(t, 1, q[1].IdleBefore)
}

func TestInsert_FirstFittingGapWins(t *testing.T) {
	q := []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 1, Start: 4, Stop: 5, IdleBefore: 4, Scheduled: true},
		{Job: 1, Step: 0, Machine: 0, Duration: 1, Start: 15, Stop: 16, IdleBefore: 10, Scheduled: true},
	}

	// Both gaps fit; the smaller, earlier one is taken.
	q, placed := insert(q, Operation{Job: 2, Step: 0, Machine: 0, Duration: 3}, 0)

	assert.Equal(t, 0, placed.Start)
	assert.Equal(t, placed, q[0])
	assert.Equal(t, 1, q[1].IdleBefore)
	assert.Equal(t, 10, q[2].IdleBefore)
}

func TestInsert_GapTooSmallAppends(t *testing.T) {
	q := []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 5, Start: 0, Stop: 5, IdleBefore: 0, Scheduled: true},
		{Job: 1, Step: 0, Machine: 0, Duration: 5, Start: 10, Stop: 15, IdleBefore: 5, Scheduled: true},
	}

	// The gap is wide enough but the job is only ready at 7.
	q, placed := insert(q, Operation{Job: 2, Step: 1, Machine: 0, Duration: 4}, 7)

	require.Len(t, q, 3)
	assert.Equal(t, placed, q[2])
	assert.Equal(t, 15, placed.Start)
	assert.Equal(t, 0, placed.IdleBefore)
	assert.Equal(t, 5, q[1].IdleBefore)
}

func TestInsert_AppendAfterIdle(t *testing.T) {
	q := []Operation{
		{Job: 0, Step: 0, Machine: 0, Duration: 5, Start: 0, Stop: 5, IdleBefore: 0, Scheduled: true},
	}

	q, placed := insert(q, Operation{Job: 1, Step: 2, Machine: 0, Duration: 2}, 8)

	assert.Equal(t, placed, q[1])
	assert.Equal(t, 8, placed.Start)
	assert.Equal(t, 3, placed.IdleBefore)
	assert.Equal(t, 10, placed.Stop)
}

func TestInsert_EmptyQueue(t *testing.T) {
	q, placed := insert(nil, Operation{Job: 0, Step: 1, Machine: 0, Duration: 2}, 4)

	require.Len(t, q, 1)
	assert.Equal(t, 4, placed.Start)
	assert.Equal(t, 4, placed.IdleBefore)
	assert.Equal(t, 6, placed.Stop)
	assert.True(t, placed.Scheduled)
}

func TestBuild_RandomInstancesAreValid(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		jobs, machines := 1+rng.Intn(8), 1+rng.Intn(6)
		inst := RandomInstance(jobs, machines, 0, 20, rng)

		s := Build(inst, nil)
		require.NoError(t, s.Verify(inst), "instance %d (%dx%d)", i, jobs, machines)
		assert.Equal(t, inst.Operations(), s.Len())

		ms := 0
		for _, op := range s.Operations() {
			ms = max(ms, op.Stop)
		}
		assert.Equal(t, ms, s.Makespan())
	}
}

func TestBuild_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	inst := RandomInstance(6, 4, 1, 9, rng)

	s := Build(inst, nil)
	again := Build(inst, s)

	assert.Equal(t, s, again)
}

func TestBuild_DoesNotTouchSeed(t *testing.T) {
	inst := twoByTwo(t)
	seed := NewSchedule(inst.Machines)
	seed.Queues[1] = []Operation{
		{Job: 0, Step: 1, Machine: 1, Duration: 2, Start: 10, Stop: 12, IdleBefore: 10, Scheduled: true},
	}
	before := seed.Clone()

	s := Build(inst, seed)

	assert.Equal(t, before, seed)
	require.NoError(t, s.Verify(inst))
	// J1/0 squeezes in front of the seeded J0/1.
	assert.Equal(t, 1, s.Queues[1][0].Job)
	assert.Equal(t, 0, s.Queues[1][0].Start)
	assert.Equal(t, 6, s.Queues[1][1].IdleBefore)
}

package gantt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/jobshop"
)

func schedule(t *testing.T) (*jobshop.Instance, *jobshop.Schedule) {
	t.Helper()
	inst, err := jobshop.NewInstance("2x2", 2, []jobshop.Job{
		jobshop.NewJob(0, []int{0, 1}, []int{3, 2}),
		jobshop.NewJob(1, []int{1, 0}, []int{4, 1}),
	})
	require.NoError(t, err)
	return inst, jobshop.Build(inst, nil)
}

func TestRender(t *testing.T) {
	inst, s := schedule(t)

	var buf bytes.Buffer
	unit, err := Render(&buf, s, inst.Machines, len(inst.Jobs), s.Makespan(), Options{UnitWidth: 1})
	require.NoError(t, err)

	assert.Equal(t, 1.0, unit)
	assert.Equal(t, strings.Join([]string{
		"jobs: 2, machines: 2, makespan: 10",
		"M0 |0/0      B|",
		"M1 |   AA1/0B|",
		"    0         10",
		"",
	}, "\n"), buf.String())
}

func TestRender_FitsWidth(t *testing.T) {
	inst, s := schedule(t)

	var buf bytes.Buffer
	unit, err := Render(&buf, s, inst.Machines, len(inst.Jobs), s.Makespan(), Options{Width: 40})
	require.NoError(t, err)
	assert.Equal(t, 4.0, unit)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Len(t, lines[1], len("M0 |")+40+1)
	assert.Contains(t, lines[1], "0/0")
	assert.Contains(t, lines[2], "1/0")
}

func TestRender_Color(t *testing.T) {
	inst, s := schedule(t)

	var plain, colored bytes.Buffer
	_, err := Render(&plain, s, inst.Machines, len(inst.Jobs), s.Makespan(), Options{UnitWidth: 2})
	require.NoError(t, err)
	_, err = Render(&colored, s, inst.Machines, len(inst.Jobs), s.Makespan(), Options{UnitWidth: 2, Color: true})
	require.NoError(t, err)

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}

func TestTable(t *testing.T) {
	_, s := schedule(t)

	out := Table(s)
	assert.Contains(t, out, "IDLE BEFORE")
	assert.Contains(t, out, "MAKESPAN")
	for _, op := range []string{" 9 |", " 10 |"} {
		assert.Contains(t, out, op)
	}
}

// Package gantt renders schedules as text: a Gantt chart with one row per
// machine and a table of operations.
package gantt

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"jobShop/internal/jobshop"
)

const defaultWidth = 80

const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var palette = []text.Colors{
	{text.BgWhite, text.FgBlack},
	{text.BgRed, text.FgBlack},
	{text.BgYellow, text.FgBlack},
	{text.BgBlue, text.FgBlack},
	{text.BgMagenta, text.FgBlack},
	{text.BgGreen, text.FgBlack},
	{text.BgCyan, text.FgBlack},
	{text.BgHiRed, text.FgBlack},
	{text.BgHiYellow, text.FgBlack},
	{text.BgHiBlue, text.FgBlack},
	{text.BgHiMagenta, text.FgBlack},
	{text.BgHiGreen, text.FgBlack},
	{text.BgHiCyan, text.FgBlack},
}

type Options struct {
	// Width is the number of columns for the time axis.
	Width int
	// UnitWidth, when > 0, is used instead of fitting Width so that several
	// charts share one scale.
	UnitWidth float64
	// Color paints each job with its own background.
	Color bool
}

// Render draws s and returns the width of one time unit in columns.
func Render(w io.Writer, s *jobshop.Schedule, machines, jobs, makespan int, opts Options) (float64, error) {
	unit := opts.UnitWidth
	if unit <= 0 {
		width := opts.Width
		if width <= 0 {
			width = defaultWidth
		}
		unit = 1
		if makespan > 0 {
			unit = float64(width) / float64(makespan)
		}
	}
	col := func(t int) int { return int(math.Round(float64(t) * unit)) }
	total := col(makespan)

	digits := len(strconv.Itoa(max(machines-1, 0)))
	var b strings.Builder
	fmt.Fprintf(&b, "jobs: %d, machines: %d, makespan: %d\n", jobs, machines, makespan)

	for m := 0; m < machines; m++ {
		prefix := fmt.Sprintf("M%-*d |", digits, m)
		b.WriteString(prefix)

		cursor := 0
		if m < len(s.Queues) {
			for _, op := range s.Queues[m] {
				from, to := col(op.Start), col(op.Stop)
				if from > cursor {
					b.WriteString(strings.Repeat(" ", from-cursor))
					cursor = from
				}
				if to <= cursor {
					continue
				}
				block := label(op, to-cursor)
				if opts.Color {
					block = palette[op.Job%len(palette)].Sprint(block)
				}
				b.WriteString(block)
				cursor = to
			}
		}
		if total > cursor {
			b.WriteString(strings.Repeat(" ", total-cursor))
		}
		b.WriteString("|\n")
	}

	pad := strings.Repeat(" ", digits+3)
	fmt.Fprintf(&b, "%s%-*s%d\n", pad, total, "0", makespan)

	_, err := io.WriteString(w, b.String())
	return unit, err
}

// label fills width columns with the job symbol and centres "job/step"
// when it fits.
func label(op jobshop.Operation, width int) string {
	fill := string(symbols[op.Job%len(symbols)])
	name := fmt.Sprintf("%d/%d", op.Job, op.Step)
	if len(name) > width {
		return strings.Repeat(fill, width)
	}
	left := (width - len(name)) / 2
	return strings.Repeat(fill, left) + name + strings.Repeat(fill, width-len(name)-left)
}

var header = table.Row{
	"Machine",
	"Job",
	"Step",
	"Start",
	"Stop",
	"Idle Before",
}

// Table lists every scheduled operation machine by machine.
func Table(s *jobshop.Schedule) string {
	t := table.NewWriter()
	t.AppendHeader(header)
	for m, q := range s.Queues {
		for _, op := range q {
			t.AppendRow(table.Row{m, op.Job, op.Step, op.Start, op.Stop, op.IdleBefore})
		}
		if m < len(s.Queues)-1 && len(q) > 0 {
			t.AppendSeparator()
		}
	}
	t.AppendFooter(table.Row{"", "", "", "", "Makespan", s.Makespan()})
	return t.Render()
}

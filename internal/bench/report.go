package bench

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var recordHeader = table.Row{
	"Algo",
	"Instance",
	"Size",
	"Runs",
	"Best",
	"Median",
	"Mean",
	"Std",
	"Final Mean",
	"Time Mean, ms",
}

// Table - сводная таблица результатов для вывода в консоль.
func Table(records []Record) string {
	t := table.NewWriter()
	t.AppendHeader(recordHeader)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
		{Number: 10, Align: text.AlignRight},
	})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Algo,
			r.Instance,
			fmt.Sprintf("%dx%d", r.Jobs, r.Machines),
			r.Runs,
			r.MakespanBest,
			fmt.Sprintf("%.1f", r.MakespanMedian),
			fmt.Sprintf("%.2f", r.MakespanMean),
			fmt.Sprintf("%.2f", r.MakespanStd),
			fmt.Sprintf("%.2f", r.FinalMean),
			fmt.Sprintf("%.2f", r.TimeMeanMs),
		})
	}
	return t.Render()
}

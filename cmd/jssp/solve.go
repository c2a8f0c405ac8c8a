package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"jobShop/internal/gantt"
	"jobShop/internal/jobshop"
	"jobShop/internal/logger"
	"jobShop/internal/sa"
)

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [instance]",
		Short: "Построить и улучшить расписание для экземпляра задачи",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	fs := cmd.Flags()
	annealingFlags(fs)
	fs.String("instance", "", "путь к файлу экземпляра (можно передать аргументом)")
	fs.Bool("chart", false, "вывести диаграмму Ганта итогового расписания")
	fs.Bool("chart-improvements", false, "выводить диаграмму при каждом новом лучшем расписании")
	fs.Int("chart-width", 100, "ширина диаграммы в символах")
	fs.Bool("color", false, "раскрашивать работы на диаграмме")
	fs.Bool("table", false, "вывести таблицу операций итогового расписания")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, cfg, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	path := cfg.Instance
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("не задан файл экземпляра: аргумент или --instance")
	}
	inst, err := jobshop.Load(path, cfg.Format)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info(ctx, "Экземпляр загружен",
		"instance", inst.Name,
		"jobs", len(inst.Jobs),
		"machines", inst.Machines,
		"operations", inst.Operations(),
		"seed", seed,
	)

	solver, err := sa.New(cfg.Annealing, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	chartOpts := gantt.Options{Width: cfg.ChartWidth, Color: cfg.Color}
	if cfg.ChartImprovements {
		solver.Hook = func(ev sa.Event) {
			if !ev.NewBest {
				return
			}
			fmt.Fprintf(out, "\nИтерация %d, T=%.4f\n", ev.Iteration, ev.Temperature)
			// Первая диаграмма задаёт масштаб для всех следующих
			unit, err := gantt.Render(out, ev.Schedule, inst.Machines, len(inst.Jobs), ev.Candidate, chartOpts)
			if err != nil {
				logger.Warn(ctx, "Не удалось вывести диаграмму", "err", err)
				return
			}
			chartOpts.UnitWidth = unit
		}
	}

	res, err := solver.Solve(ctx, inst)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Длина расписания: %d (лучшая: %d), итераций: %d, принято: %d, из них ухудшений: %d, время: %s\n",
		res.Makespan, res.BestMakespan, res.Iterations, res.Accepted, res.Worsened, res.Duration.Round(time.Millisecond))

	if cfg.Chart {
		chartOpts.UnitWidth = 0
		if _, err := gantt.Render(out, res.Schedule, inst.Machines, len(inst.Jobs), res.Makespan, chartOpts); err != nil {
			return err
		}
	}
	if cfg.Table {
		fmt.Fprintln(out, gantt.Table(res.Schedule))
	}
	return nil
}

package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"jobShop/internal/bench"
	"jobShop/internal/jobshop"
	"jobShop/internal/logger"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
)

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [instance...]",
		Short: "Сравнить режимы обновления температуры на нескольких запусках",
		RunE:  runBench,
	}
	fs := cmd.Flags()
	annealingFlags(fs)
	fs.String("out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	fs.String("pairs", "", "случайные экземпляры: количество работ Х количество станков (через запятую), например 10x5,20x10")
	fs.String("modes", "linear,decay,gradual", "список режимов обновления температуры (через запятую)")
	fs.Int("runs", 10, "количество запусков каждого режима (с разными сидами)")
	fs.Int64("instance-seed", 777, "базовый сид для генерации случайных экземпляров")
	fs.Duration("per-run-timeout", 0, "таймаут одного запуска; 0 - без ограничения")
	return cmd
}

// Фабрика: один SA-солвер на сид, режим задаётся заранее.
func newSAFactory(cfg sa.Config) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		return sa.New(cfg, rand.New(rand.NewSource(seed)))
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx, cfg, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	fs := cmd.Flags()
	out, _ := fs.GetString("out")
	pairs, _ := fs.GetString("pairs")
	modes, _ := fs.GetString("modes")
	runs, _ := fs.GetInt("runs")
	instanceSeed, _ := fs.GetInt64("instance-seed")
	perRunTO, _ := fs.GetDuration("per-run-timeout")

	var cases []bench.Case
	for _, path := range args {
		inst, err := jobshop.Load(path, cfg.Format)
		if err != nil {
			return err
		}
		cases = append(cases, bench.Case{Instance: inst})
	}
	random, err := parsePairs(pairs, instanceSeed)
	if err != nil {
		return err
	}
	cases = append(cases, random...)
	if len(cases) == 0 {
		return fmt.Errorf("не заданы экземпляры: файлы аргументами или --pairs")
	}

	var selected []bench.Algorithm
	for _, name := range splitCSV(modes) {
		mode, err := sa.ParseMode(name)
		if err != nil {
			return err
		}
		saCfg := cfg.Annealing
		saCfg.Mode = mode
		if err := saCfg.Validate(); err != nil {
			return fmt.Errorf("конфликт в конфигурации режима %s: %w", mode, err)
		}
		selected = append(selected, bench.Algorithm{Name: mode.String(), Factory: newSAFactory(saCfg)})
	}

	runner := bench.Runner{
		Runs:          runs,
		BaseSeed:      cfg.Seed,
		PerRunTimeout: perRunTO,
	}

	// Логи отдельных запусков только в режиме отладки
	runCtx := ctx
	if !cfg.Debug {
		runCtx = logger.WithLogger(ctx, logger.NewLogger(logger.WithQuiet()))
	}

	var records []bench.Record
	for _, c := range cases {
		// Случайный экземпляр генерируется один раз для всех режимов
		inst := c.Resolve()
		c.Instance = inst
		for _, a := range selected {
			logger.Info(ctx, "Запуск серии",
				"algo", a.Name,
				"instance", inst.Name,
				"jobs", len(inst.Jobs),
				"machines", inst.Machines,
				"runs", runner.Runs,
			)

			rec, err := runner.RunCase(runCtx, c, a)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), bench.Table(records))

	if err := bench.WriteCSV(out, records); err != nil {
		return fmt.Errorf("ошибка при записи в CSV: %w", err)
	}
	logger.Info(ctx, "Результаты сохранены", "path", out)
	return nil
}

func parsePairs(s string, baseInstanceSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		jm := strings.Split(p, "x")
		if len(jm) != 2 {
			return nil, fmt.Errorf("пара %q невалидной схемы, пример: 20x10", p)
		}
		jobs, err := strconv.Atoi(strings.TrimSpace(jm[0]))
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества работ: %w", p, err)
		}
		machines, err := strconv.Atoi(strings.TrimSpace(jm[1]))
		if err != nil {
			return nil, fmt.Errorf("пара %q: ошибка парсинга количества машин: %w", p, err)
		}
		if jobs <= 0 || machines <= 0 {
			return nil, fmt.Errorf("пара %q: количество работ и машин должно быть > 0", p)
		}

		seed := baseInstanceSeed + int64(i)*10_000 + int64(jobs)*100 + int64(machines)
		cases = append(cases, bench.Case{
			Jobs:         jobs,
			Machines:     machines,
			InstanceSeed: seed,
		})
	}

	return cases, nil
}

func splitCSV(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}

package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"jobShop/internal/jobshop"
	"jobShop/internal/logger"
	"jobShop/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) (opt.Optimizer, error)
}

// Case - экземпляр задачи: загруженный из файла (Instance != nil)
// или случайный размера Jobs x Machines.
type Case struct {
	Instance     *jobshop.Instance
	Jobs         int
	Machines     int
	InstanceSeed int64
}

// Resolve возвращает экземпляр задачи для кейса.
func (c Case) Resolve() *jobshop.Instance {
	if c.Instance != nil {
		return c.Instance
	}
	return jobshop.RandomInstance(c.Jobs, c.Machines, 1, 99, rand.New(rand.NewSource(c.InstanceSeed)))
}

type Record struct {
	Algo     string
	Instance string
	Jobs     int
	Machines int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest   int
	MakespanMedian float64
	MakespanMean   float64
	MakespanStd    float64
	// FinalMean - среднее длин последних принятых расписаний.
	FinalMean float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	inst := c.Resolve()

	makespans := make([]int, 0, r.Runs)
	finals := make([]int, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op, err := algo.Factory(runSeed)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if err := res.Best.Verify(inst); err != nil {
			return Record{}, fmt.Errorf("run %d: %w", i, err)
		}

		logger.Debug(ctx, "Запуск завершён",
			"algo", algo.Name,
			"run", i,
			"seed", runSeed,
			"best", res.BestMakespan,
			"final", res.Makespan,
		)

		makespans = append(makespans, res.BestMakespan)
		finals = append(finals, res.Makespan)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
	}

	msStats := CalcStats(makespans)
	finalStats := CalcStats(finals)
	tStats := CalcStats(timesMs)

	return Record{
		Algo:     algo.Name,
		Instance: inst.Name,
		Jobs:     len(inst.Jobs),
		Machines: inst.Machines,
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest:   msStats.Best,
		MakespanMedian: msStats.Median,
		MakespanMean:   msStats.Mean,
		MakespanStd:    msStats.Std,
		FinalMean:      finalStats.Mean,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"algo", "instance", "jobs", "machines", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_median", "makespan_mean", "makespan_std", "final_mean",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Algo,
			r.Instance,
			strconv.Itoa(r.Jobs),
			strconv.Itoa(r.Machines),
			strconv.Itoa(r.Runs),

			strconv.FormatFloat(r.TimeBestMs, 'f', 6, 64),
			strconv.FormatFloat(r.TimeMeanMs, 'f', 6, 64),
			strconv.FormatFloat(r.TimeStdMs, 'f', 6, 64),

			strconv.Itoa(r.MakespanBest),
			strconv.FormatFloat(r.MakespanMedian, 'f', 6, 64),
			strconv.FormatFloat(r.MakespanMean, 'f', 6, 64),
			strconv.FormatFloat(r.MakespanStd, 'f', 6, 64),
			strconv.FormatFloat(r.FinalMean, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

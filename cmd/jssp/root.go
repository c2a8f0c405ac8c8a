package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jobShop/internal/config"
	"jobShop/internal/logger"
	"jobShop/internal/sa"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jssp",
		Short:         "Job-shop scheduling методом имитации отжига",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "путь к YAML-файлу конфигурации (по умолчанию ./jssp.yaml, если есть)")
	pf.Bool("debug", false, "подробное логирование")
	pf.String("log-format", "text", "формат логов: text | json")
	pf.String("log-file", "", "дополнительно писать логи в файл")
	pf.BoolP("quiet", "q", false, "не выводить логи в stderr")

	root.AddCommand(newSolveCmd(), newBenchCmd(), newVersionCmd())
	return root
}

// annealingFlags - параметры отжига, общие для solve и bench.
func annealingFlags(fs *pflag.FlagSet) {
	d := sa.DefaultConfig()
	fs.String("temperature-update", d.Mode.String(), "режим обновления температуры: linear | decay | gradual")
	fs.Float64("initial-temperature", d.InitialTemperature, "начальная температура")
	fs.Int("iterations-number", d.Iterations, "количество итераций")
	fs.Float64("decay-constant", d.DecayConstant, "коэффициент для режима decay, (0,1)")
	fs.Float64("gradual-constant-a", d.GradualA, "константа a для режима gradual")
	fs.Float64("gradual-constant-n", d.GradualN, "константа n для режима gradual")
	fs.Bool("verify", false, "проверять инварианты каждого принятого расписания")
	fs.String("format", "auto", "формат файла экземпляра: auto | pairs | taillard")
	fs.Int64("seed", 0, "сид генератора случайных чисел (0 - от текущего времени)")
}

// setup загружает конфигурацию (флаги > JSSP_* > файл > умолчания)
// и кладёт логгер в контекст. Возвращаемая функция закрывает лог-файл.
func setup(cmd *cobra.Command) (context.Context, *config.Config, func(), error) {
	v := viper.New()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	if bindErr != nil {
		return nil, nil, nil, bindErr
	}

	var opts []config.LoaderOption
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg, err := config.NewLoader(v, opts...).Load()
	if err != nil {
		return nil, nil, nil, err
	}

	var logOpts []logger.Option
	if cfg.Debug || os.Getenv("DEBUG") != "" {
		logOpts = append(logOpts, logger.WithDebug())
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		logOpts = append(logOpts, logger.WithQuiet())
	}
	logOpts = append(logOpts, logger.WithFormat(cfg.LogFormat))

	cleanup := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logOpts = append(logOpts, logger.WithWriter(f))
		cleanup = func() { _ = f.Close() }
	}

	ctx := logger.WithLogger(cmd.Context(), logger.NewLogger(logOpts...))
	if cfg.ConfigFile != "" {
		logger.Debug(ctx, "Конфигурация загружена", "file", cfg.ConfigFile)
	}
	return ctx, cfg, cleanup, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Версия программы",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}

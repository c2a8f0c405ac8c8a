package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/jobshop"
	"jobShop/internal/sa"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jssp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := NewLoader(viper.New()).Load()
	require.NoError(t, err)

	assert.Equal(t, sa.DefaultConfig(), cfg.Annealing)
	assert.Equal(t, jobshop.FormatAuto, cfg.Format)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
instance: ft06.txt
format: taillard
seed: 17
temperature_update: gradual
initial_temperature: 25
iterations_number: 5000
gradual_constant_a: 500
gradual_constant_n: 1.5
log_format: json
chart: true
`)

	cfg, err := NewLoader(viper.New(), WithConfigFile(path)).Load()
	require.NoError(t, err)

	assert.Equal(t, "ft06.txt", cfg.Instance)
	assert.Equal(t, jobshop.FormatTaillard, cfg.Format)
	assert.Equal(t, int64(17), cfg.Seed)
	assert.Equal(t, sa.Config{
		Mode:               sa.ModeGradual,
		InitialTemperature: 25,
		Iterations:         5000,
		DecayConstant:      0.5,
		GradualA:           500,
		GradualN:           1.5,
	}, cfg.Annealing)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Chart)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "temperature_update: linear\niterations_number: 10\n")
	t.Setenv("JSSP_TEMPERATURE_UPDATE", "decay")
	t.Setenv("JSSP_DECAY_CONSTANT", "0.9")

	cfg, err := NewLoader(viper.New(), WithConfigFile(path)).Load()
	require.NoError(t, err)

	assert.Equal(t, sa.ModeDecay, cfg.Annealing.Mode)
	assert.Equal(t, 0.9, cfg.Annealing.DecayConstant)
	assert.Equal(t, 10, cfg.Annealing.Iterations)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JSSP_ITERATIONS_NUMBER", "10")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("iterations_number", 0, "")
	require.NoError(t, flags.Parse([]string{"--iterations_number=42"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("iterations_number", flags.Lookup("iterations_number")))

	cfg, err := NewLoader(v).Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Annealing.Iterations)
}

func TestLoad_OutputOptions(t *testing.T) {
	path := writeConfig(t, "chart_improvements: true\ntable: false\ncolor: true\n")
	t.Setenv("JSSP_TABLE", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("chart_improvements", false, "")
	require.NoError(t, flags.Parse([]string{"--chart_improvements=false"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("chart_improvements", flags.Lookup("chart_improvements")))

	cfg, err := NewLoader(v, WithConfigFile(path)).Load()
	require.NoError(t, err)
	assert.False(t, cfg.ChartImprovements, "flag wins over file")
	assert.True(t, cfg.Table, "env wins over file")
	assert.True(t, cfg.Color)
}

func TestLoad_UnknownModeFailsFast(t *testing.T) {
	path := writeConfig(t, "temperature_update: exponential\n")

	_, err := NewLoader(viper.New(), WithConfigFile(path)).Load()
	assert.ErrorIs(t, err, sa.ErrUnknownMode)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative iterations", "iterations_number: -1\n"},
		{"decay constant", "temperature_update: decay\ndecay_constant: -0.5\n"},
		{"format", "format: csv\n"},
		{"log format", "log_format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(viper.New(), WithConfigFile(writeConfig(t, tt.body))).Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(viper.New(), WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))).Load()
	assert.Error(t, err)
}

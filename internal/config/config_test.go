package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sitewise/internal/llm"
)

// isolate runs the test in an empty directory with no sitewise variables
// inherited from the outer environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for name := range legacyEnv {
		t.Setenv(name, "")
	}
	for _, name := range []string{
		"SITEWISE_DB_PATH", "SITEWISE_ANALYTICS__HOURLY_RATE", "SITEWISE_ANALYTICS__ANNUAL_INFLATION",
		"SITEWISE_ANALYTICS__WINDOW_DAYS", "SITEWISE_LOG__LEVEL", "SITEWISE_LOG__FORMAT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Analytics.AnnualInflation)
	assert.Equal(t, 85.0, cfg.Analytics.HourlyRate)
	assert.Equal(t, 30, cfg.Analytics.WindowDays)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "/uploads", cfg.Server.MediaBase)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultOllamaEndpoint, cfg.LLM.Endpoint)
	assert.Equal(t, llm.DefaultOllamaModel, cfg.LLM.Model)
	assert.NotEmpty(t, cfg.LLM.Tasks)
	assert.Equal(t, "sitewise.db", filepath.Base(cfg.DBPath))
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "sitewise.yaml"), `
db_path: /data/site.db
analytics:
  hourly_rate: 90
  window_days: 14
llm:
  enabled: true
server:
  addr: ":9000"
`)
	t.Setenv("SITEWISE_ANALYTICS__HOURLY_RATE", "95")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("hourly-rate", 85, "")
	flags.String("addr", ":8000", "")
	flags.String("unrelated", "", "")
	require.NoError(t, flags.Parse([]string{"--hourly-rate=100", "--unrelated=x"}))

	cfg, err := Load(LoadOptions{Flags: flags})

	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.Analytics.HourlyRate)
	assert.Equal(t, 14, cfg.Analytics.WindowDays)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/data/site.db", cfg.DBPath)
	assert.True(t, cfg.LLM.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "analytics:\n  hourly_rate: 90\n")
	t.Setenv("SITEWISE_ANALYTICS__HOURLY_RATE", "95")

	cfg, err := Load(LoadOptions{ConfigFile: path})

	require.NoError(t, err)
	assert.Equal(t, 95.0, cfg.Analytics.HourlyRate)
}

func TestLoad_LegacyVariables(t *testing.T) {
	isolate(t)
	t.Setenv("ESTIMATED_ANNUAL_INFLATION", "0.03")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0.03, cfg.Analytics.AnnualInflation)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, llm.DefaultOpenAIEndpoint, cfg.LLM.Endpoint)
	assert.Equal(t, llm.DefaultOpenAIModel, cfg.LLM.Model)
}

func TestLoad_PrefixedBeatsLegacy(t *testing.T) {
	isolate(t)
	t.Setenv("ESTIMATED_ANNUAL_INFLATION", "0.03")
	t.Setenv("SITEWISE_ANALYTICS__ANNUAL_INFLATION", "0.04")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0.04, cfg.Analytics.AnnualInflation)
}

func TestLoad_DotEnvBelowProcessEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "SITEWISE_LOG__LEVEL=debug\nSITEWISE_LOG__FORMAT=json\nLLM_MODEL=mistral\n")
	t.Setenv("SITEWISE_LOG__LEVEL", "warn")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Empty(t, os.Getenv("LLM_MODEL"), ".env must not be written into the process environment")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "absent.yaml")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)
	t.Setenv("SITEWISE_ANALYTICS__WINDOW_DAYS", "0")

	_, err := Load(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window_days")
}

func TestConfig_Validate(t *testing.T) {
	isolate(t)
	base, err := Load(LoadOptions{})
	require.NoError(t, err)

	cases := map[string]func(c *Config){
		"empty db path":    func(c *Config) { c.DBPath = "" },
		"negative rate":    func(c *Config) { c.Analytics.HourlyRate = -1 },
		"infinite rate":    func(c *Config) { c.Analytics.HourlyRate = math.Inf(1) },
		"NaN inflation":    func(c *Config) { c.Analytics.AnnualInflation = math.NaN() },
		"unknown provider": func(c *Config) { c.LLM.Provider = "bard" },
		"empty addr":       func(c *Config) { c.Server.Addr = "" },
		"bad level":        func(c *Config) { c.Log.Level = "loud" },
		"bad format":       func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := *base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":1`)
}

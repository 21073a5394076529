package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/sitewise/internal/llm"
)

// LoadOptions locates the configuration sources. Empty file names fall back
// to sitewise.yaml and .env in the working directory; missing default files
// are skipped, a missing explicit ConfigFile is an error.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
	Flags      *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys. Only flags the user
// set explicitly override lower layers.
var flagKeys = map[string]string{
	"db":           "db_path",
	"addr":         "server.addr",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"inflation":    "analytics.annual_inflation",
	"hourly-rate":  "analytics.hourly_rate",
	"window-days":  "analytics.window_days",
	"llm":          "llm.enabled",
	"llm-provider": "llm.provider",
	"llm-model":    "llm.model",
}

// legacyEnv maps variable names of earlier deployments to config keys.
// SITEWISE_ variables win over them.
var legacyEnv = map[string]string{
	"ESTIMATED_ANNUAL_INFLATION": "analytics.annual_inflation",
	"AI_PROVIDER":                "llm.provider",
	"LLM_MODEL":                  "llm.model",
	"OLLAMA_HOST":                "llm.endpoint",
	"OPENAI_API_KEY":             "llm.api_key",
}

// Load builds the configuration. Precedence, lowest to highest: defaults,
// YAML file, .env file, process environment, explicitly set flags. Within
// each environment layer SITEWISE_ names override legacy names. Nested keys
// use a double underscore: SITEWISE_LLM__API_KEY sets llm.api_key.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	cfgFile := opts.ConfigFile
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading env file %s: %w", envFile, err)
	}
	if err := k.Load(confmap.Provider(envKeys(dotenv), "."), nil); err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	if err := k.Load(confmap.Provider(legacyKeys(processEnv()), "."), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LLM.Tasks = llm.DefaultTasks()
	cfg.LLM = cfg.LLM.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey turns SITEWISE_LLM__API_KEY into llm.api_key.
func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(name, "__", ".")
}

// envKeys applies both naming schemes to a set of variables, with
// SITEWISE_ names applied last.
func envKeys(vars map[string]string) map[string]any {
	out := legacyKeys(vars)
	for name, value := range vars {
		if strings.HasPrefix(name, EnvPrefix) {
			out[envKey(name)] = value
		}
	}
	return out
}

func legacyKeys(vars map[string]string) map[string]any {
	out := make(map[string]any)
	for name, key := range legacyEnv {
		if v, ok := vars[name]; ok && v != "" {
			out[key] = v
		}
	}
	return out
}

func processEnv() map[string]string {
	out := make(map[string]string, len(legacyEnv))
	for name := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok {
			out[name] = v
		}
	}
	return out
}

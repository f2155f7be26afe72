// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"raceward/internal/core/ports"
)

type Config struct {
	// App
	Corpus       string
	TimeoutS     int // per-tool-run seconds (0 = no timeout)
	Quiet        bool
	PrintVersion bool

	// Analysis-mode selection
	Modes Modes

	// Threads test-case scheduler override for instrumented runs
	Threads int

	// Suppressions path to the version-controlled suppression source file
	Suppressions string

	// Feed location of the toolchain version feed (file path or http(s) URL)
	Feed string

	// IO
	OutputDir string

	// Invokers: dynamic map of per-invoker configurations
	// Key = invoker name ("interpreted", "instrumented")
	Invokers map[string]ports.InvokerConfig
}

type Modes struct {
	Interpreted  bool
	Instrumented bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Corpus:   "./corpus",
		TimeoutS: 600,

		Modes: Modes{
			Interpreted:  true,
			Instrumented: true,
		},
		Threads: 1,

		Suppressions: "suppressions.yaml",
		Feed:         "toolchain-feed.yaml",
		OutputDir:    "raceward_out",

		Invokers: map[string]ports.InvokerConfig{
			"interpreted": {
				Enabled: true,
				Timeout: 10 * time.Minute,
				Custom:  map[string]interface{}{"exclude_expected_panics": true},
			},
			"instrumented": {
				Enabled: true,
				Timeout: 10 * time.Minute,
				Custom:  make(map[string]interface{}),
			},
		},
	}
}

// Load initializes configuration: defaults, then ENV, then flags (flags win).
func Load() (Config, error) {
	cfg := DefaultConfig()

	loadFromEnv(&cfg)
	loadFromFlags(&cfg)
	normalize(&cfg)

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if v := getenv("RACEWARD_CORPUS", ""); v != "" {
		cfg.Corpus = v
	}
	if v := getenv("RACEWARD_TIMEOUT", ""); v != "" {
		cfg.TimeoutS = parseInt(v, cfg.TimeoutS)
	}
	if v := getenv("RACEWARD_MODE", ""); v != "" {
		applyModeSelection(cfg, v)
	}
	if v := getenv("RACEWARD_TEST_THREADS", ""); v != "" {
		cfg.Threads = parseInt(v, cfg.Threads)
	}
	if v := getenv("RACEWARD_SUPPRESSIONS", ""); v != "" {
		cfg.Suppressions = v
	}
	if v := getenv("RACEWARD_FEED", ""); v != "" {
		cfg.Feed = v
	}
	if v := getenv("RACEWARD_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("RACEWARD_QUIET", ""); v != "" {
		cfg.Quiet = parseBool(v)
	}

	// Invoker config from ENV
	// Format: RACEWARD_INVOKERS_INTERPRETED_ENABLED=true
	//         RACEWARD_INVOKERS_INTERPRETED_EXEC=/usr/local/bin/interp-harness
	//         RACEWARD_INVOKERS_INTERPRETED_TIMEOUT=900
	for name := range cfg.Invokers {
		prefix := fmt.Sprintf("RACEWARD_INVOKERS_%s_", strings.ToUpper(name))

		invCfg := cfg.Invokers[name]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			invCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"EXEC", ""); v != "" {
			invCfg.ExecPath = v
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			invCfg.Timeout = time.Duration(parseInt(v, int(invCfg.Timeout.Seconds()))) * time.Second
		}

		cfg.Invokers[name] = invCfg
	}
}

// loadFromFlags parses CLI flags.
func loadFromFlags(cfg *Config) {
	var mode string

	pflag.StringVar(&cfg.Corpus, "corpus", cfg.Corpus, "Path to the test corpus under verification")
	pflag.StringVar(&mode, "mode", "", "Analysis mode selection: both, interpreted, instrumented")
	pflag.IntVar(&cfg.Threads, "test-threads", cfg.Threads, "Test-case scheduler thread count for instrumented runs")
	pflag.StringVar(&cfg.Suppressions, "suppressions", cfg.Suppressions, "Path to the suppression registry source file")
	pflag.StringVar(&cfg.Feed, "feed", cfg.Feed, "Toolchain version feed (file path or http(s) URL)")
	pflag.IntVar(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "Per-tool-run timeout in seconds (0 = no timeout)")
	pflag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory for result reports")
	pflag.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "Quiet mode (no UI, minimal output)")
	pflag.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Print version and exit")

	// Per-invoker flags parse into temporaries; the values are copied into
	// the config map only after Parse has run.
	execFlags := make(map[string]*string, len(cfg.Invokers))
	for name := range cfg.Invokers {
		execFlags[name] = pflag.String(fmt.Sprintf("%s.exec", name), cfg.Invokers[name].ExecPath,
			fmt.Sprintf("Path to the %s analysis tool binary", name))
	}

	pflag.Parse()

	for name, execPath := range execFlags {
		invCfg := cfg.Invokers[name]
		invCfg.ExecPath = *execPath
		cfg.Invokers[name] = invCfg
	}

	if mode != "" {
		applyModeSelection(cfg, mode)
	}
}

func applyModeSelection(cfg *Config, v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "both", "all", "":
		cfg.Modes = Modes{Interpreted: true, Instrumented: true}
	case "interpreted":
		cfg.Modes = Modes{Interpreted: true}
	case "instrumented":
		cfg.Modes = Modes{Instrumented: true}
	}
}

func normalize(c *Config) {
	c.Corpus = strings.TrimSpace(c.Corpus)
	if c.Threads < 1 {
		c.Threads = 1
	}
	if c.TimeoutS < 0 {
		c.TimeoutS = 0
	}
	if c.OutputDir == "" {
		c.OutputDir = "raceward_out"
	}

	// Invoker enablement follows the mode selection.
	if inv, ok := c.Invokers["interpreted"]; ok {
		inv.Enabled = c.Modes.Interpreted
		if inv.Timeout <= 0 {
			inv.Timeout = c.Timeout()
		}
		c.Invokers["interpreted"] = inv
	}
	if inv, ok := c.Invokers["instrumented"]; ok {
		inv.Enabled = c.Modes.Instrumented
		if inv.Timeout <= 0 {
			inv.Timeout = c.Timeout()
		}
		c.Invokers["instrumented"] = inv
	}
}

// ToJSON serializes the configuration (useful for debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout returns the per-tool-run timeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

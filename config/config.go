package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"palletchain/native/claims"
	"palletchain/observability/logging"
	"palletchain/storage"
)

// Config is the harness configuration file.
type Config struct {
	Runtime   Runtime   `toml:"Runtime"`
	Logging   Logging   `toml:"Logging"`
	Telemetry Telemetry `toml:"Telemetry"`
}

// Runtime selects the storage backend and module limits.
type Runtime struct {
	Backend        string `toml:"Backend"`
	MaxClaimLength int    `toml:"MaxClaimLength"`
}

// Logging mirrors logging.Options.
type Logging struct {
	Level  string `toml:"Level"`
	Format string `toml:"Format"`
	File   string `toml:"File"`
}

// Telemetry configures the OTLP exporters. Both exporters are off unless
// explicitly enabled.
type Telemetry struct {
	Endpoint    string `toml:"Endpoint"`
	Insecure    bool   `toml:"Insecure"`
	Headers     string `toml:"Headers"`
	Traces      bool   `toml:"Traces"`
	Metrics     bool   `toml:"Metrics"`
	Environment string `toml:"Environment"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Runtime: Runtime{
			Backend:        storage.BackendMemDB,
			MaxClaimLength: claims.DefaultMaxContentLength,
		},
		Logging: Logging{
			Level:  "info",
			Format: logging.FormatAuto,
		},
		Telemetry: Telemetry{
			Endpoint: "localhost:4318",
		},
	}
}

// Load reads the configuration at path on top of the defaults. An empty path
// or a missing file yields the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and limits.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Runtime.Backend)) {
	case "", storage.BackendMemDB, storage.BackendLevelDB:
	default:
		return fmt.Errorf("runtime: unknown backend %q", c.Runtime.Backend)
	}
	if c.Runtime.MaxClaimLength <= 0 {
		return fmt.Errorf("runtime: max_claim_length must be positive")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", logging.FormatAuto, logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	if (c.Telemetry.Traces || c.Telemetry.Metrics) && strings.TrimSpace(c.Telemetry.Endpoint) == "" {
		return fmt.Errorf("telemetry: endpoint required when exporters are enabled")
	}
	return nil
}

// Package integration provides configuration presets and assembly helpers
// for building the settlement node runtime. Presets bundle common settings
// (cache sizes, log levels, error reporting) into named profiles (lite,
// full, archive) so operators can quickly spin up nodes tuned for different
// workloads without tweaking dozens of flags.
//
// Usage:
//
//	cfg := integration.LitePreset()    // for development
//	cfg := integration.FullPreset()    // for production settlement nodes
//	cfg := integration.ArchivePreset() // for audit export services
//
// Each preset returns a PresetConfig struct that the launcher merges into
// its main config during node initialization.
package integration

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/utils/cachescale"

	"github.com/rony4d/go-splitpay/ledger"
)

// baselineCacheMB is the cache budget the ledger's DefaultStoreConfig is
// sized for. Preset cache budgets scale the store caches relative to it.
const baselineCacheMB = 1024

// PresetConfig captures the tunable parameters that vary across preset
// profiles. It intentionally excludes fields that are always the same
// (like treasury addresses or rate tables) so presets focus on resource
// and observability trade-offs.
type PresetConfig struct {
	Name         string // human-readable identifier (e.g., "lite", "full")
	CacheMB      int    // memory budget for the audit record caches
	LogLevel     string // default logrus level: "debug", "info", "warn"
	EnableSentry bool   // whether to forward error-level logs to Sentry
}

// DefaultPreset returns the balanced configuration used when no profile
// is selected.
func DefaultPreset() PresetConfig {
	return PresetConfig{
		Name:         "default",
		CacheMB:      baselineCacheMB, // 1GB cache: enough for moderate settlement volume
		LogLevel:     "info",          // operational events without per-settlement noise
		EnableSentry: false,           // error forwarding is opt-in (needs a DSN)
	}
}

// LitePreset returns a lightweight configuration optimized for development,
// testing, and low-resource environments. It trades cache headroom for a
// smaller memory footprint and chattier logs.
//
// Use cases:
//   - Local development on laptops
//   - CI pipelines with limited resources
//   - Disposable demo nodes
//
// Trade-offs:
//   - Smaller caches re-read audit records from the database more often
//   - Debug-level logging is too verbose for production volume
func LitePreset() PresetConfig {
	cfg := DefaultPreset() // start with balanced defaults
	cfg.Name = "lite"      // set preset identifier for logging/config dumps
	cfg.CacheMB = 256      // reduce cache to 256MB so the node fits constrained environments
	cfg.LogLevel = "debug" // chatty logs help diagnose issues during development
	return cfg
}

// FullPreset returns a production-ready configuration for settlement nodes
// serving live payment flow. It enlarges the record caches and enables
// error reporting while keeping log volume manageable.
//
// Use cases:
//   - Production settlement nodes
//   - Homologation environments mirroring production load
//
// Trade-offs:
//   - Large caches require significant RAM (4GB+ recommended)
//   - Sentry forwarding needs a DSN configured at launch
func FullPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "full"
	cfg.CacheMB = 4096      // 4GB cache: keeps the hot tail of the audit trail in memory
	cfg.LogLevel = "info"   // operational events only
	cfg.EnableSentry = true // forward errors to the monitoring backend
	return cfg
}

// ArchivePreset returns a configuration for audit export and analytics
// services that scan long stretches of the settlement record sequence.
//
// Use cases:
//   - Audit export endpoints (tax administration reporting)
//   - Analytics over historical settlements
//
// Trade-offs:
//   - Very large caches require substantial RAM (8GB+ recommended)
//   - Warn-level logging keeps batch scans from flooding the log
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.CacheMB = 8192      // 8GB cache: record scans stay in memory across export batches
	cfg.LogLevel = "warn"   // batch jobs only need to hear about problems
	cfg.EnableSentry = true // long-running exports should report failures
	return cfg
}

// StoreConfig translates the preset's cache budget into a ledger store
// configuration by scaling the default cache sizes proportionally.
//
// Example:
//
//	store := ledger.NewStore(db, integration.FullPreset().StoreConfig())
func (cfg PresetConfig) StoreConfig() ledger.StoreConfig {
	mb := cfg.CacheMB
	if mb <= 0 {
		mb = baselineCacheMB // unset budget means the default sizing
	}
	return ledger.DefaultStoreConfig(cachescale.Ratio{
		Base:   baselineCacheMB,
		Target: uint64(mb),
	})
}

// GetPresetByName looks up a preset by its string identifier and returns
// the corresponding PresetConfig. Returns an error if the name is
// unrecognized. This helper enables CLI flags like --preset=full to select
// configurations dynamically.
//
// Example:
//
//	preset, err := integration.GetPresetByName("lite")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "lite":
		return LitePreset(), nil
	case "full":
		return FullPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: lite, full, archive, default)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing config struct.
// Fields set in the preset override the corresponding values in the target.
// This allows presets to be applied on top of CLI/config-file overrides
// without clobbering unrelated settings.
//
// Example:
//
//	cfg := launcher.DefaultConfig()
//	preset := integration.FullPreset()
//	integration.ApplyPreset(&cfg.Preset, preset)
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.CacheMB > 0 {
		target.CacheMB = preset.CacheMB
	}
	if preset.LogLevel != "" {
		target.LogLevel = preset.LogLevel
	}
	// the boolean flag is always applied (no zero-value check possible)
	target.EnableSentry = preset.EnableSentry
	if preset.Name != "" {
		target.Name = preset.Name
	}
}

//go:build !debug

package config

// applyEnvOverrides is a no-op in release builds: the debug-only file path
// overrides are not exposed outside test/debug builds.
func applyEnvOverrides(cfg *Config) {}

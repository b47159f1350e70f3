// Package config manages configuration for the CPS Atlas pipeline.
//
// Configuration is assembled from three layers, in order of precedence:
//
//  1. Environment variables with the CPS_ prefix (CPS_API_BASE_URL,
//     CPS_INPUTS_DIR, CPS_LOGGING_LEVEL, ...)
//  2. An optional YAML config file (config.yaml or configs/config.yaml)
//  3. Built-in defaults from Default()
//
// Directory fields left empty after all three layers are resolved against
// the executable-relative layout from GetPaths: data/inputs for source
// files, data/outputs for generated tables, logs for log files. Load does
// not create directories; callers use Paths.EnsureDirectories before the
// first write.
//
// The assembled Config is validated with struct tags before it is
// returned, so a bad base URL or log level fails at startup instead of
// mid-run.
package config

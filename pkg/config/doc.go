// Package config implements the layered configuration store for the
// voice-assistant platform. Each layer (default, distribution, system,
// user) owns one on-disk file, loaded into an in-memory dictionary
// with key-overwrite merge semantics. Files are JSON (optionally with
// // and /* */ comments) or YAML, selected by extension.
package config

// Package xdg resolves base directories according to the XDG Base
// Directory specification.
//
// Every function reads the process environment at call time; nothing is
// cached. Paths coming from XDG variables must be absolute — a relative
// value is treated exactly like an unset variable, per the spec.
package xdg

import (
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names consulted by this package.
const (
	EnvCacheHome  = "XDG_CACHE_HOME"
	EnvConfigHome = "XDG_CONFIG_HOME"
	EnvConfigDirs = "XDG_CONFIG_DIRS"
	EnvDataHome   = "XDG_DATA_HOME"
	EnvDataDirs   = "XDG_DATA_DIRS"
	EnvStateHome  = "XDG_STATE_HOME"
	EnvRuntimeDir = "XDG_RUNTIME_DIR"
	EnvHome       = "HOME"
)

// Home returns the user's home directory from $HOME, falling back to
// the root path when the variable is unset or empty. The fallback is a
// degenerate last resort, not an error.
func Home() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	return "/"
}

// CacheHome returns $XDG_CACHE_HOME, or ~/.cache when unset, empty or
// relative.
func CacheHome() string {
	return pathFromEnv(EnvCacheHome, func() string {
		return filepath.Join(Home(), ".cache")
	})
}

// ConfigHome returns $XDG_CONFIG_HOME, or ~/.config when unset, empty
// or relative.
func ConfigHome() string {
	return pathFromEnv(EnvConfigHome, func() string {
		return filepath.Join(Home(), ".config")
	})
}

// DataHome returns $XDG_DATA_HOME, or ~/.local/share when unset, empty
// or relative.
func DataHome() string {
	return pathFromEnv(EnvDataHome, func() string {
		return filepath.Join(Home(), ".local", "share")
	})
}

// StateHome returns $XDG_STATE_HOME, or ~/.local/state when unset,
// empty or relative.
func StateHome() string {
	return pathFromEnv(EnvStateHome, func() string {
		return filepath.Join(Home(), ".local", "state")
	})
}

// ConfigDirs returns the colon-separated directories from
// $XDG_CONFIG_DIRS, or ["/etc/xdg"] when no absolute entries remain.
func ConfigDirs() []string {
	return pathsFromEnv(EnvConfigDirs, func() []string {
		return []string{"/etc/xdg"}
	})
}

// DataDirs returns the colon-separated directories from $XDG_DATA_DIRS,
// or ["/usr/local/share", "/usr/share"] when no absolute entries remain.
func DataDirs() []string {
	return pathsFromEnv(EnvDataDirs, func() []string {
		return []string{"/usr/local/share", "/usr/share"}
	})
}

// RuntimeDir returns $XDG_RUNTIME_DIR and true when the variable holds
// an absolute path. There is no default: callers must treat a false
// result as meaningful and pick their own fallback (typically a temp
// location).
func RuntimeDir() (string, bool) {
	dir := os.Getenv(EnvRuntimeDir)
	if dir == "" || !filepath.IsAbs(dir) {
		return "", false
	}
	return dir, true
}

// pathFromEnv reads a single-path variable, accepting only non-empty
// absolute values.
func pathFromEnv(name string, fallback func() string) string {
	val := os.Getenv(name)
	if val != "" && filepath.IsAbs(val) {
		return val
	}
	return fallback()
}

// pathsFromEnv reads a colon-separated list variable, keeping only
// non-empty absolute entries in their original order.
func pathsFromEnv(name string, fallback func() []string) []string {
	val := os.Getenv(name)
	if val == "" {
		return fallback()
	}
	var dirs []string
	for _, dir := range strings.Split(val, ":") {
		if dir != "" && filepath.IsAbs(dir) {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return fallback()
	}
	return dirs
}

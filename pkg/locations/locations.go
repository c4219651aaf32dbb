// Package locations builds the ordered candidate paths for mycroft
// configuration files by composing the XDG resolver with the
// platform's fixed filenames.
package locations

import (
	"os"
	"path/filepath"

	"github.com/openvoiceos/ovos-config/pkg/logging"
	"github.com/openvoiceos/ovos-config/pkg/xdg"
)

// Environment variables overriding the well-known layer paths.
const (
	EnvDistributionConfig = "OVOS_DISTRIBUTION_CONFIG"
	EnvSystemConfig       = "MYCROFT_SYSTEM_CONFIG"
	EnvWebCache           = "MYCROFT_WEB_CACHE"
)

// Fixed names and default paths.
const (
	// DefaultFolder is the subfolder appended to XDG base directories.
	DefaultFolder = "mycroft"

	// ConfFileName is the leaf filename of every config layer.
	ConfFileName = "mycroft.conf"

	// WebCacheFileName holds settings fetched from the remote backend.
	WebCacheFileName = "web_cache.json"

	// LegacyDirName is the pre-XDG dotfolder under the home directory.
	LegacyDirName = ".mycroft"

	// DefaultConfigPath is the baked-in default config location.
	DefaultConfigPath = "/etc/mycroft/mycroft.conf"

	// DefaultDistributionPath is the default distribution config location.
	DefaultDistributionPath = "/usr/share/mycroft/mycroft.conf"

	// DefaultSystemPath is the default system config location. It
	// coincides with DefaultConfigPath unless MYCROFT_SYSTEM_CONFIG
	// repoints it; the duplication is deliberate.
	DefaultSystemPath = "/etc/mycroft/mycroft.conf"

	// RemoteConfigHost is the backend the web cache layer is fetched
	// from. This library never contacts it; the constant is exported
	// for the platform components that sync WebCacheFileName.
	RemoteConfigHost = "mycroft.ai"
)

// Locations binds each named configuration layer to its resolved path.
// Construct it once at startup with Resolve and pass it to the
// components that need it; there are no package-level lazy statics.
type Locations struct {
	Default      string
	Distribution string
	System       string
	WebCache     string
	LegacyUser   string
	User         string
}

// Resolve reads the process environment once and returns the resolved
// path for every named layer.
func Resolve() *Locations {
	return &Locations{
		Default:      DefaultConfigPath,
		Distribution: envOr(EnvDistributionConfig, DefaultDistributionPath),
		System:       envOr(EnvSystemConfig, DefaultSystemPath),
		WebCache:     envOr(EnvWebCache, WebCacheLocation()),
		LegacyUser:   legacyUserConfig(),
		User:         filepath.Join(ConfigSavePath(""), ConfFileName),
	}
}

// All returns the full precedence chain in load order: default,
// distribution, system, webcache, legacy home dotfile, XDG user.
// Later entries override earlier ones when merged by the application.
func (l *Locations) All() []string {
	return []string{
		l.Default,
		l.Distribution,
		l.System,
		l.WebCache,
		l.LegacyUser,
		l.User,
	}
}

// ConfigDirs returns the candidate config directories for folder:
// every XDG config directory plus the config-home directory itself,
// each with folder appended. An empty folder means DefaultFolder.
func ConfigDirs(folder string) []string {
	if folder == "" {
		folder = DefaultFolder
	}
	dirs := append(xdg.ConfigDirs(), xdg.ConfigHome())
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		out[i] = filepath.Join(dir, folder)
	}
	return out
}

// DataDirs returns the candidate data directories for folder, one per
// XDG data directory. An empty folder means DefaultFolder.
func DataDirs(folder string) []string {
	if folder == "" {
		folder = DefaultFolder
	}
	dirs := xdg.DataDirs()
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		out[i] = filepath.Join(dir, folder)
	}
	return out
}

// ConfigSavePath returns the directory new user config is saved under.
func ConfigSavePath(folder string) string {
	if folder == "" {
		folder = DefaultFolder
	}
	return filepath.Join(xdg.ConfigHome(), folder)
}

// DataSavePath returns the directory user data is saved under.
func DataSavePath(folder string) string {
	if folder == "" {
		folder = DefaultFolder
	}
	return filepath.Join(xdg.DataHome(), folder)
}

// CacheSavePath returns the directory cached files are saved under.
func CacheSavePath(folder string) string {
	if folder == "" {
		folder = DefaultFolder
	}
	return filepath.Join(xdg.CacheHome(), folder)
}

// WebCacheLocation returns the default path of the web settings cache.
func WebCacheLocation() string {
	return filepath.Join(ConfigSavePath(""), WebCacheFileName)
}

// XDGLocations returns one candidate config file per XDG config
// directory, reversed so the most specific directory (config-home) is
// last and wins when merged in order.
func XDGLocations() []string {
	dirs := ConfigDirs("")
	out := make([]string, len(dirs))
	for i, dir := range dirs {
		out[len(dirs)-1-i] = filepath.Join(dir, ConfFileName)
	}
	return out
}

// FindUserConfig returns the path of the user's config file. The
// XDG-resolved path wins when it exists; the legacy home dotfile is
// used as a fallback when present. When neither exists the XDG path is
// returned regardless, as the target for a future save.
func FindUserConfig() string {
	path := filepath.Join(ConfigSavePath(""), ConfFileName)
	if isFile(path) {
		return path
	}
	if old := legacyUserConfig(); isFile(old) {
		return old
	}
	return path
}

// EnsureFolderExists creates the parent directory of path, best
// effort. Failures are swallowed: the write that follows will surface
// the real, more specific error.
func EnsureFolderExists(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger := logging.GetLogger("locations")
		logger.Debug().Err(err).Str("path", path).Msg("could not create config folder")
	}
}

func legacyUserConfig() string {
	return filepath.Join(xdg.Home(), LegacyDirName, ConfFileName)
}

func envOr(name, fallback string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return fallback
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/renameio/v2"
	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/openvoiceos/ovos-config/pkg/errors"
	"github.com/openvoiceos/ovos-config/pkg/locations"
	"github.com/openvoiceos/ovos-config/pkg/logging"
)

// File formats selected by extension. There is no content sniffing:
// .yml and .yaml mean YAML, everything else is JSON.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// LocalConf is one mutable configuration layer: an optional backing
// file, an in-memory dictionary and the modification timestamp of the
// file at the moment of the last successful load. The dictionary and
// the timestamp are guarded by independent read/write locks so
// concurrent readers never block each other.
type LocalConf struct {
	mu   sync.RWMutex
	k    *koanf.Koanf
	path string

	ltMu       sync.RWMutex
	lastLoaded time.Time
}

// New creates a layer bound to path and immediately attempts to load
// it. An empty path makes a purely in-memory layer. Construction never
// fails outright: on a load error the returned layer is valid and
// empty, and the error is handed back for the caller to act on.
func New(path string) (*LocalConf, error) {
	c := &LocalConf{
		k:    koanf.New("."),
		path: path,
	}
	var err error
	if path != "" {
		err = c.LoadLocal("")
	}
	return c, err
}

// Path returns the layer's bound file path, empty for in-memory layers.
func (c *LocalConf) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// LastLoaded returns the staleness marker: the backing file's
// modification time captured at the last successful load of the bound
// path. The zero time means the bound path has never been loaded.
func (c *LocalConf) LastLoaded() time.Time {
	c.ltMu.RLock()
	defer c.ltMu.RUnlock()
	return c.lastLoaded
}

// LoadLocal reads the file at pathOverride (or the bound path when
// empty) and merges its contents into the dictionary, incoming keys
// overwriting existing ones. A missing or non-regular file is not an
// error: the layer simply contributes nothing. Unreadable or
// unparseable files surface as errors and leave the dictionary
// untouched. The staleness marker is only updated when the loaded path
// is the bound path.
func (c *LocalConf) LoadLocal(pathOverride string) error {
	logger := logging.GetLogger("config")

	bound := c.Path()
	path := pathOverride
	if path == "" {
		path = bound
	}
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logger.Debug().Str("path", path).Msg("configuration not defined, skipping")
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "unable to read configuration %s", path)
	}

	parser := parserFor(path)
	if fileFormat(path) == formatJSON {
		raw = StripComments(raw)
	}

	c.mu.Lock()
	err = c.k.Load(rawbytes.Provider(raw), parser, koanf.WithMergeFunc(mergeTopLevel))
	c.mu.Unlock()
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "unable to parse configuration %s", path)
	}
	logger.Debug().Str("path", path).Msg("configuration loaded")

	if path == bound {
		// The marker tracks the bound path only; loads from an
		// override path record nothing.
		if info, err := os.Stat(path); err == nil {
			c.ltMu.Lock()
			c.lastLoaded = info.ModTime()
			c.ltMu.Unlock()
		}
	}
	return nil
}

// Reload re-reads the bound file when it changed on disk since the
// last load. Layers without a bound path, or whose file is currently
// missing, reload nothing. An unchanged file is skipped without
// re-parsing.
func (c *LocalConf) Reload() error {
	path := c.Path()
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	last := c.LastLoaded()
	if last.IsZero() || info.ModTime().After(last) {
		return c.LoadLocal(path)
	}
	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("not changed since last load")
	return nil
}

// Store serializes the full dictionary to pathOverride (or the bound
// path when empty), creating the file if absent and replacing it
// otherwise. The target format follows the target path's extension.
// A layer with no path anywhere reports ErrNoSaveLocation and writes
// nothing.
func (c *LocalConf) Store(pathOverride string) error {
	path := pathOverride
	if path == "" {
		path = c.Path()
	}
	if path == "" {
		err := errors.New(errors.ErrNoSaveLocation, "in-memory configuration, no save location")
		logger := logging.GetLogger("config")
		logger.Error().Msg(err.Message)
		return err
	}

	c.mu.RLock()
	data, err := c.k.Marshal(parserFor(path))
	c.mu.RUnlock()
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigSerialize, "unable to serialize configuration for %s", path)
	}

	locations.EnsureFolderExists(path)
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "unable to write configuration %s", path)
	}
	return nil
}

// Merge combines conf into the dictionary, incoming keys overwriting
// existing ones. No disk interaction takes place.
func (c *LocalConf) Merge(conf map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.k.Load(confmap.Provider(conf, ""), nil, koanf.WithMergeFunc(mergeTopLevel)); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "unable to merge configuration")
	}
	return nil
}

// Get returns the value at key, nil when absent. Nested values are
// addressed with dots, e.g. "tts.module".
func (c *LocalConf) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Get(key)
}

// Has reports whether key is present.
func (c *LocalConf) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Exists(key)
}

// Set writes value at key in the dictionary.
func (c *LocalConf) Set(key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.k.Set(key, value); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "unable to set %q", key)
	}
	return nil
}

// All returns a copy of the dictionary as a nested map.
func (c *LocalConf) All() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Raw()
}

// Unmarshal decodes the subtree at key (the whole dictionary when key
// is empty) into out, with weakly typed conversions.
func (c *LocalConf) Unmarshal(key string, out interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := c.k.UnmarshalWithConf(key, out, conf); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "unable to decode configuration")
	}
	return nil
}

// rebind points the layer at a new file and clears the staleness
// marker so the next reload is unconditional.
func (c *LocalConf) rebind(path string) {
	c.mu.Lock()
	c.path = path
	c.mu.Unlock()

	c.ltMu.Lock()
	c.lastLoaded = time.Time{}
	c.ltMu.Unlock()
}

// mergeTopLevel overwrites whole top-level keys instead of
// deep-merging nested maps: the incoming layer's value for a key
// replaces the previous value wholesale, keys present in only one side
// are kept.
func mergeTopLevel(src, dest map[string]interface{}) error {
	for key, val := range src {
		dest[key] = val
	}
	return nil
}

func fileFormat(path string) string {
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
		return formatYAML
	default:
		return formatJSON
	}
}

func parserFor(path string) koanf.Parser {
	if fileFormat(path) == formatYAML {
		return kyaml.Parser()
	}
	return kjson.Parser()
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openvoiceos/ovos-config/pkg/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	t.Run("loads_bound_json_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"lang": "en-us", "tts": {"module": "mimic"}}`)

		c, err := New(path)
		require.NoError(t, err)
		assert.Equal(t, "en-us", c.Get("lang"))
		assert.Equal(t, "mimic", c.Get("tts.module"))
	})

	t.Run("missing_file_is_not_an_error", func(t *testing.T) {
		c, err := New(filepath.Join(t.TempDir(), "absent.conf"))
		require.NoError(t, err)
		assert.Empty(t, c.All())
	})

	t.Run("parse_error_surfaces_but_layer_is_usable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.conf")
		writeFile(t, path, `{not json`)

		c, err := New(path)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		require.NotNil(t, c)
		assert.Empty(t, c.All())
	})

	t.Run("in_memory_layer", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		assert.Empty(t, c.Path())
		assert.Empty(t, c.All())
	})
}

func TestLoadLocal(t *testing.T) {
	t.Run("yaml_by_extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.yaml")
		writeFile(t, path, "lang: en-us\nstt:\n  module: vosk\n")

		c, err := New(path)
		require.NoError(t, err)
		assert.Equal(t, "en-us", c.Get("lang"))
		assert.Equal(t, "vosk", c.Get("stt.module"))
	})

	t.Run("json_with_comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, "// header\n{\"a\": 1 /* note */}")

		c, err := New(path)
		require.NoError(t, err)
		assert.EqualValues(t, 1, c.Get("a"))
	})

	t.Run("merge_is_additive_per_key", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.conf")
		second := filepath.Join(dir, "second.conf")
		writeFile(t, first, `{"k": 1, "keep": "yes"}`)
		writeFile(t, second, `{"k": 2, "j": 3}`)

		c, err := New(first)
		require.NoError(t, err)
		require.NoError(t, c.LoadLocal(second))

		assert.EqualValues(t, 2, c.Get("k"))
		assert.EqualValues(t, 3, c.Get("j"))
		assert.Equal(t, "yes", c.Get("keep"), "unrelated keys must survive a load")
	})

	t.Run("top_level_keys_replace_wholesale", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.conf")
		second := filepath.Join(dir, "second.conf")
		writeFile(t, first, `{"tts": {"module": "mimic", "rate": 1}}`)
		writeFile(t, second, `{"tts": {"module": "piper"}}`)

		c, err := New(first)
		require.NoError(t, err)
		require.NoError(t, c.LoadLocal(second))

		assert.Equal(t, "piper", c.Get("tts.module"))
		assert.Nil(t, c.Get("tts.rate"), "incoming top-level value replaces the whole subtree")
	})

	t.Run("idempotent_on_unchanged_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1, "b": {"c": true}}`)

		c, err := New(path)
		require.NoError(t, err)
		once := c.All()
		require.NoError(t, c.LoadLocal(""))
		assert.Equal(t, once, c.All())
	})

	t.Run("no_effective_path_is_a_noop", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.LoadLocal(""))
		assert.Empty(t, c.All())
	})

	t.Run("override_path_records_no_staleness_marker", func(t *testing.T) {
		dir := t.TempDir()
		other := filepath.Join(dir, "other.conf")
		writeFile(t, other, `{"a": 1}`)

		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.LoadLocal(other))
		assert.EqualValues(t, 1, c.Get("a"))
		assert.True(t, c.LastLoaded().IsZero(), "marker tracks the bound path only")
	})

	t.Run("bound_path_records_staleness_marker", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1}`)

		c, err := New(path)
		require.NoError(t, err)
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.Equal(t, info.ModTime(), c.LastLoaded())
	})
}

func TestReload(t *testing.T) {
	t.Run("skips_unchanged_file_without_reparsing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1}`)

		c, err := New(path)
		require.NoError(t, err)
		marker := c.LastLoaded()

		// Corrupt the file but back-date it: a skipped reload must not
		// re-parse, so no error can surface.
		writeFile(t, path, `{corrupted`)
		past := marker.Add(-time.Hour)
		require.NoError(t, os.Chtimes(path, past, past))

		require.NoError(t, c.Reload())
		assert.EqualValues(t, 1, c.Get("a"))
		assert.Equal(t, marker, c.LastLoaded())
	})

	t.Run("reloads_newer_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1}`)

		c, err := New(path)
		require.NoError(t, err)

		writeFile(t, path, `{"a": 2, "b": 3}`)
		future := c.LastLoaded().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, future, future))

		require.NoError(t, c.Reload())
		assert.EqualValues(t, 2, c.Get("a"))
		assert.EqualValues(t, 3, c.Get("b"))
	})

	t.Run("reloads_when_no_marker_exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")

		c, err := New(path)
		require.NoError(t, err)
		require.True(t, c.LastLoaded().IsZero())

		writeFile(t, path, `{"a": 1}`)
		require.NoError(t, c.Reload())
		assert.EqualValues(t, 1, c.Get("a"))
	})

	t.Run("skip_keeps_merged_view_intact", func(t *testing.T) {
		dir := t.TempDir()
		bound := filepath.Join(dir, "mycroft.conf")
		extra := filepath.Join(dir, "extra.conf")
		writeFile(t, bound, `{"k": 1, "keep": {"deep": "yes"}}`)
		writeFile(t, extra, `{"k": 2, "keep": {"other": 1}, "j": 3}`)

		c, err := New(bound)
		require.NoError(t, err)
		require.NoError(t, c.LoadLocal(extra))

		// Back-date a corrupted bound file: the skipped reload must not
		// re-parse, and the merged view stays as loaded.
		marker := c.LastLoaded()
		writeFile(t, bound, `{corrupted`)
		past := marker.Add(-time.Hour)
		require.NoError(t, os.Chtimes(bound, past, past))

		require.NoError(t, c.Reload())
		assert.EqualValues(t, 2, c.Get("k"))
		assert.EqualValues(t, 3, c.Get("j"))
		assert.EqualValues(t, 1, c.Get("keep.other"))
		assert.Nil(t, c.Get("keep.deep"), "incoming top-level value replaces the whole subtree")
	})

	t.Run("noop_without_bound_path", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Reload())
	})

	t.Run("noop_when_bound_file_missing", func(t *testing.T) {
		c, err := New(filepath.Join(t.TempDir(), "absent.conf"))
		require.NoError(t, err)
		require.NoError(t, c.Reload())
	})

	t.Run("parse_error_on_changed_file_surfaces", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1}`)

		c, err := New(path)
		require.NoError(t, err)

		writeFile(t, path, `{corrupted`)
		future := c.LastLoaded().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, future, future))

		err = c.Reload()
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})
}

func TestStore(t *testing.T) {
	t.Run("no_save_location", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{"a": 1}))

		err = c.Store("")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoSaveLocation))
	})

	t.Run("json_round_trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saved.conf")
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{
			"lang":    "en-us",
			"enabled": true,
			"tts":     map[string]interface{}{"module": "mimic"},
		}))
		require.NoError(t, c.Store(path))

		fresh, err := New(path)
		require.NoError(t, err)
		assert.Equal(t, "en-us", fresh.Get("lang"))
		assert.Equal(t, true, fresh.Get("enabled"))
		assert.Equal(t, "mimic", fresh.Get("tts.module"))
	})

	t.Run("yaml_round_trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saved.yaml")
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{
			"lang": "de-de",
			"stt":  map[string]interface{}{"module": "vosk"},
		}))
		require.NoError(t, c.Store(path))

		fresh, err := New(path)
		require.NoError(t, err)
		assert.Equal(t, "de-de", fresh.Get("lang"))
		assert.Equal(t, "vosk", fresh.Get("stt.module"))
	})

	t.Run("overwrites_existing_file_with_full_dict", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"stale": true, "a": 1}`)

		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{"a": 2}))
		require.NoError(t, c.Store(path))

		fresh, err := New(path)
		require.NoError(t, err)
		assert.EqualValues(t, 2, fresh.Get("a"))
		assert.Nil(t, fresh.Get("stale"), "store writes the full dict, not a merge")
	})

	t.Run("creates_missing_parent_directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deep", "nested", "mycroft.conf")
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{"a": 1}))
		require.NoError(t, c.Store(path))

		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})
}

func TestMerge(t *testing.T) {
	t.Run("key_overwrite_union", func(t *testing.T) {
		c, err := New("")
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{"k": 1}))
		require.NoError(t, c.Merge(map[string]interface{}{"k": 2, "j": 3}))

		assert.EqualValues(t, 2, c.Get("k"))
		assert.EqualValues(t, 3, c.Get("j"))
	})

	t.Run("no_disk_interaction", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mycroft.conf")
		writeFile(t, path, `{"a": 1}`)

		c, err := New(path)
		require.NoError(t, err)
		require.NoError(t, c.Merge(map[string]interface{}{"a": 99}))

		fresh, err := New(path)
		require.NoError(t, err)
		assert.EqualValues(t, 1, fresh.Get("a"), "merge must not touch the file")
	})
}

func TestSetGetHas(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)

	require.NoError(t, c.Set("lang", "en-us"))
	assert.Equal(t, "en-us", c.Get("lang"))
	assert.True(t, c.Has("lang"))
	assert.False(t, c.Has("absent"))
	assert.Nil(t, c.Get("absent"))
}

func TestUnmarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mycroft.conf")
	writeFile(t, path, `{"tts": {"module": "mimic", "rate": "2"}}`)

	c, err := New(path)
	require.NoError(t, err)

	var tts struct {
		Module string `koanf:"module"`
		Rate   int    `koanf:"rate"`
	}
	require.NoError(t, c.Unmarshal("tts", &tts))
	assert.Equal(t, "mimic", tts.Module)
	assert.Equal(t, 2, tts.Rate, "weakly typed decode converts the string")
}

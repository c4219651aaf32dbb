package config

import (
	"github.com/openvoiceos/ovos-config/pkg/errors"
)

// ReadOnlyConf wraps a LocalConf with a mutation policy. When
// allowOverwrite is false, Set, Merge and Store fail with an
// ErrReadOnly policy error, distinguishable from I/O failures.
// Reload is always permitted: it reads from disk, not from
// caller-supplied data, so the policy is lifted for its duration.
type ReadOnlyConf struct {
	conf           *LocalConf
	allowOverwrite bool
}

// NewReadOnly creates a policy-wrapped layer bound to path. Load
// errors are reported alongside a valid, empty layer, like New.
func NewReadOnly(path string, allowOverwrite bool) (*ReadOnlyConf, error) {
	conf, err := New(path)
	return &ReadOnlyConf{conf: conf, allowOverwrite: allowOverwrite}, err
}

// Path returns the bound file path.
func (r *ReadOnlyConf) Path() string { return r.conf.Path() }

// Get returns the value at key, nil when absent.
func (r *ReadOnlyConf) Get(key string) interface{} { return r.conf.Get(key) }

// Has reports whether key is present.
func (r *ReadOnlyConf) Has(key string) bool { return r.conf.Has(key) }

// All returns a copy of the dictionary as a nested map.
func (r *ReadOnlyConf) All() map[string]interface{} { return r.conf.All() }

// Unmarshal decodes the subtree at key into out.
func (r *ReadOnlyConf) Unmarshal(key string, out interface{}) error {
	return r.conf.Unmarshal(key, out)
}

// Reload refreshes the layer from disk regardless of the policy.
func (r *ReadOnlyConf) Reload() error { return r.conf.Reload() }

// Set writes value at key, or fails with ErrReadOnly.
func (r *ReadOnlyConf) Set(key string, value interface{}) error {
	if !r.allowOverwrite {
		return errReadOnly()
	}
	return r.conf.Set(key, value)
}

// Merge combines conf into the dictionary, or fails with ErrReadOnly.
func (r *ReadOnlyConf) Merge(conf map[string]interface{}) error {
	if !r.allowOverwrite {
		return errReadOnly()
	}
	return r.conf.Merge(conf)
}

// Store persists the dictionary, or fails with ErrReadOnly.
func (r *ReadOnlyConf) Store(pathOverride string) error {
	if !r.allowOverwrite {
		return errReadOnly()
	}
	return r.conf.Store(pathOverride)
}

func errReadOnly() error {
	return errors.New(errors.ErrReadOnly,
		"this configuration is read-only and cannot be modified at runtime")
}

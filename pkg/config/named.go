package config

import (
	"github.com/openvoiceos/ovos-config/pkg/locations"
)

// The named layers bind the store to the platform's well-known paths.
// Each constructor takes explicitly resolved locations rather than
// consulting globals, keeping initialization order deterministic.

// DefaultConf is the baked-in default layer. It is strictly read-only
// at runtime, but an application may repoint it at its own root config
// file via SetRootConfigPath.
type DefaultConf struct {
	*ReadOnlyConf
}

// NewDefaultConfig creates the default layer bound to the resolved
// default path.
func NewDefaultConfig(loc *locations.Locations) (*DefaultConf, error) {
	ro, err := NewReadOnly(loc.Default, false)
	return &DefaultConf{ro}, err
}

// SetRootConfigPath repoints the default layer at an
// application-supplied root config file and reloads it immediately.
func (d *DefaultConf) SetRootConfigPath(path string) error {
	d.conf.rebind(path)
	return d.Reload()
}

// DistributionConf is the layer shipped by the OS distribution.
// Whether administrators may mutate it at runtime is a deployment
// decision, expressed through allowOverwrite.
type DistributionConf struct {
	*ReadOnlyConf
}

// NewDistributionConfig creates the distribution layer bound to the
// resolved distribution path.
func NewDistributionConfig(loc *locations.Locations, allowOverwrite bool) (*DistributionConf, error) {
	ro, err := NewReadOnly(loc.Distribution, allowOverwrite)
	return &DistributionConf{ro}, err
}

// SystemConf is the machine-local system layer.
type SystemConf struct {
	*ReadOnlyConf
}

// NewSystemConfig creates the system layer bound to the resolved
// system path.
func NewSystemConfig(loc *locations.Locations, allowOverwrite bool) (*SystemConf, error) {
	ro, err := NewReadOnly(loc.System, allowOverwrite)
	return &SystemConf{ro}, err
}

// UserConf is the user's own layer at the XDG-resolved save path. It
// is always writable and never policy-wrapped.
type UserConf struct {
	*LocalConf
}

// NewUserConfig creates the user layer bound to the resolved user
// save path.
func NewUserConfig(loc *locations.Locations) (*UserConf, error) {
	conf, err := New(loc.User)
	return &UserConf{conf}, err
}

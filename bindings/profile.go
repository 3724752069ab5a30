package bindings

import (
	"errors"
	"fmt"
	"os"

	"github.com/milk9111/inputkit/input"
	"gopkg.in/yaml.v3"
)

var ErrEmptyProfile = errors.New("bindings: empty profile")

// Profile is a saved control scheme: system settings plus bindings.
type Profile struct {
	Settings input.Config      `yaml:"settings"`
	Bindings []input.Descriptor `yaml:"bindings"`
}

// NewProfile captures the current bindings of b together with cfg.
func NewProfile(cfg input.Config, b *input.Binder) *Profile {
	return &Profile{Settings: cfg, Bindings: b.Export().Bindings}
}

// Snapshot returns the profile's bindings in the form Binder.Import takes.
func (p *Profile) Snapshot() input.Snapshot {
	return input.Snapshot{Bindings: p.Bindings}
}

// Parse decodes a YAML profile. Settings missing from data keep their defaults.
func Parse(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, ErrEmptyProfile
	}
	p := &Profile{Settings: input.DefaultConfig()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("bindings: unmarshal: %w", err)
	}
	return p, nil
}

func Marshal(p *Profile) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("bindings: marshal: %w", err)
	}
	return data, nil
}

// LoadFile reads a profile from an explicit path on disk.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bindings: read %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bindings: load %s: %w", path, err)
	}
	return p, nil
}

func SaveFile(path string, p *Profile) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("bindings: write %s: %w", path, err)
	}
	return nil
}

// Apply imports the profile's bindings into b. With replace set the
// existing bindings are cleared first, but only once the profile is known
// to be valid.
func Apply(b *input.Binder, p *Profile, replace bool) error {
	staged := input.NewBinder()
	if err := staged.Import(p.Snapshot()); err != nil {
		return fmt.Errorf("bindings: apply: %w", err)
	}
	if replace {
		b.Clear()
	}
	return b.Import(staged.Export())
}

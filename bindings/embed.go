package bindings

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultProfile is the profile name used when none is given.
const DefaultProfile = "default.yaml"

//go:embed *.yaml
var ProfilesFS embed.FS

// Dir is where on-disk profiles override the embedded ones.
var Dir = "bindings"

// Read returns the named profile's bytes, preferring a copy under Dir.
func Read(name string) ([]byte, error) {
	clean := cleanProfilePath(name)
	if data, err := os.ReadFile(DiskPath(clean)); err == nil {
		return data, nil
	}
	data, err := ProfilesFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("bindings: read %s: %w", clean, err)
	}
	return data, nil
}

// Load reads and parses the named profile.
func Load(name string) (*Profile, error) {
	data, err := Read(name)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("bindings: load %s: %w", name, err)
	}
	return p, nil
}

// DiskPath maps a profile name to its override location under Dir.
func DiskPath(name string) string {
	return filepath.Join(Dir, filepath.FromSlash(cleanProfilePath(name)))
}

func cleanProfilePath(path string) string {
	if path == "" {
		return DefaultProfile
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "bindings/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

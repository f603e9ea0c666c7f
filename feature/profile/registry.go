package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Registry holds the import profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry validates profiles and indexes them by name.
func NewRegistry(profiles ...Profile) (*Registry, error) {
	validate := validator.New()
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for i := range profiles {
		p := profiles[i]
		if err := validate.Struct(&p); err != nil {
			return nil, fmt.Errorf("invalid profile %q: %w", p.Name, err)
		}
		if err := p.check(); err != nil {
			return nil, err
		}
		if _, dup := r.profiles[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q", p.Name)
		}
		r.profiles[p.Name] = p
	}
	return r, nil
}

// Load reads the profiles file and adds the built-in furniture profile for
// emulator unless the file defines one. A missing file yields only built-ins.
func Load(path, emulator string) (*Registry, error) {
	var profiles []Profile

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v := viper.New()
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read profiles file: %w", err)
			}
			if err := v.UnmarshalKey("profiles", &profiles); err != nil {
				return nil, fmt.Errorf("failed to decode profiles: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat profiles file: %w", err)
		}
	}

	hasFurniture := false
	for _, p := range profiles {
		if p.Name == FurnitureProfileName {
			hasFurniture = true
		}
	}
	if !hasFurniture {
		profiles = append(profiles, Furniture(emulator))
	}

	return NewRegistry(profiles...)
}

// Get returns the named profile.
func (r *Registry) Get(name string) (Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// List returns every profile sorted by name.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Package seeds loads reference data (properties, units, users and ticket
// categories) from a YAML fixture.
package seeds

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fastighet/internal/shared/authorization"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Properties []PropertyFixture `yaml:"properties"`
	Users      []UserFixture     `yaml:"users"`
	Categories []CategoryFixture `yaml:"categories"`
}

type PropertyFixture struct {
	Name    string        `yaml:"name"`
	Address string        `yaml:"address"`
	City    string        `yaml:"city"`
	Units   []UnitFixture `yaml:"units"`
}

type UnitFixture struct {
	Number string `yaml:"number"`
	Floor  int    `yaml:"floor"`
}

type UserFixture struct {
	Email       string          `yaml:"email"`
	Name        string          `yaml:"name"`
	Phone       string          `yaml:"phone"`
	Role        string          `yaml:"role"`
	Units       []UnitReference `yaml:"units"`
	Administers []string        `yaml:"administers"`
}

// UnitReference points at a unit by property name and unit number.
type UnitReference struct {
	Property string `yaml:"property"`
	Number   string `yaml:"number"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

// DefaultFixture returns the embedded development fixture.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a fixture. Unknown keys are rejected
// so typos do not silently drop data.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	units := make(map[UnitReference]struct{})
	properties := make(map[string]struct{})
	for _, p := range f.Properties {
		if p.Name == "" {
			return fmt.Errorf("property without a name")
		}
		properties[p.Name] = struct{}{}
		for _, u := range p.Units {
			units[UnitReference{Property: p.Name, Number: u.Number}] = struct{}{}
		}
	}

	for _, u := range f.Users {
		if u.Email == "" {
			return fmt.Errorf("user %q has no email", u.Name)
		}
		role, ok := authorization.ParseUserRole(u.Role)
		if !ok {
			return fmt.Errorf("user %s has unknown role %q", u.Email, u.Role)
		}
		for _, ref := range u.Units {
			if _, ok := units[ref]; !ok {
				return fmt.Errorf("user %s references unknown unit %s/%s", u.Email, ref.Property, ref.Number)
			}
		}
		for _, name := range u.Administers {
			if _, ok := properties[name]; !ok {
				return fmt.Errorf("user %s administers unknown property %q", u.Email, name)
			}
			if role != authorization.RoleAdmin {
				return fmt.Errorf("user %s administers %q but is not an ADMIN", u.Email, name)
			}
		}
	}

	for _, c := range f.Categories {
		if c.Name == "" {
			return fmt.Errorf("category without a name")
		}
	}
	return nil
}

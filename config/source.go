// Package config provides property sources and placeholder resolution for
// definition metadata. The PlaceholderConfigurer it exports is a built-in
// factory configurer that replaces ${key} references in metadata values
// during the configuration phase of bootstrap.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/c360/wirekit/errors"
)

// Source supplies property values for placeholder resolution.
type Source interface {
	// Lookup returns the value for a key and whether it was found.
	Lookup(key string) (string, bool)

	// Name identifies the source in logs and error messages.
	Name() string
}

// MapSource serves properties from an in-memory map.
type MapSource struct {
	name   string
	values map[string]string
}

// NewMapSource creates a named in-memory property source.
func NewMapSource(name string, values map[string]string) *MapSource {
	return &MapSource{name: name, values: values}
}

// Lookup returns the value for a key.
func (s *MapSource) Lookup(key string) (string, bool) {
	value, found := s.values[key]
	return value, found
}

// Name identifies the source.
func (s *MapSource) Name() string { return s.name }

// EnvSource serves properties from process environment variables, mapping
// dotted keys to upper-snake form ("db.host" matches DB_HOST).
type EnvSource struct {
	prefix string
}

// NewEnvSource creates an environment property source. A non-empty prefix is
// prepended to every variable name.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

// Lookup returns the environment value for a key.
func (s *EnvSource) Lookup(key string) (string, bool) {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if s.prefix != "" {
		name = s.prefix + "_" + name
	}
	return os.LookupEnv(name)
}

// Name identifies the source.
func (s *EnvSource) Name() string { return "env" }

// DotenvSource serves properties loaded from dotenv files.
type DotenvSource struct {
	path   string
	values map[string]string
}

// NewDotenvSource reads a dotenv file into a property source.
func NewDotenvSource(path string) (*DotenvSource, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "DotenvSource", "NewDotenvSource", "dotenv file read")
	}
	return &DotenvSource{path: path, values: values}, nil
}

// Lookup returns the value for a key, matching both the literal key and its
// upper-snake form.
func (s *DotenvSource) Lookup(key string) (string, bool) {
	if value, found := s.values[key]; found {
		return value, true
	}
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	value, found := s.values[name]
	return value, found
}

// Name identifies the source.
func (s *DotenvSource) Name() string { return "dotenv:" + s.path }

// ViperSource adapts a viper instance as a property source, so applications
// already managing configuration with viper can feed placeholder resolution.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource wraps a viper instance. A nil instance wraps viper's global.
func NewViperSource(v *viper.Viper) *ViperSource {
	if v == nil {
		v = viper.GetViper()
	}
	return &ViperSource{v: v}
}

// Lookup returns the viper value for a key.
func (s *ViperSource) Lookup(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// Name identifies the source.
func (s *ViperSource) Name() string { return "viper" }

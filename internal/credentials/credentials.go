// Package credentials resolves the Linode API key from an ordered list of sources.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvAPIKey is the environment variable consulted after an explicit key
	EnvAPIKey = "LINODE_API_KEY"
	// EnvToken is the variable used by the Linode CLI and linodego
	EnvToken = "LINODE_TOKEN"
)

// ErrNoCredential is returned when none of the sources yields an api key
var ErrNoCredential = errors.New("linode api key is required: pass --api-key or set " + EnvAPIKey)

// Source looks up a credential. ok is false when the source has nothing to offer.
type Source interface {
	Lookup() (value string, ok bool)
	String() string
}

type valueSource struct {
	value string
}

// FromValue returns a source that yields an explicitly supplied key
func FromValue(v string) Source {
	return valueSource{value: v}
}

func (s valueSource) Lookup() (string, bool) {
	v := strings.TrimSpace(s.value)

	return v, v != ""
}

func (s valueSource) String() string { return "explicit value" }

type envSource struct {
	name   string
	lookup func(string) (string, bool)
}

const envKey = "credential"

// FromEnv returns a source that reads the named environment variable.
// The name is bound as is, outside of any viper env prefix.
func FromEnv(name string) Source {
	v := viper.New()
	v.MustBindEnv(envKey, name)

	return envSource{name: name, lookup: func(string) (string, bool) {
		return v.GetString(envKey), v.IsSet(envKey)
	}}
}

func (s envSource) Lookup() (string, bool) {
	v, ok := s.lookup(s.name)
	v = strings.TrimSpace(v)

	return v, ok && v != ""
}

func (s envSource) String() string { return "environment variable " + s.name }

// DefaultSources returns the lookup order used by the CLI: the explicit key, then LINODE_API_KEY,
// then LINODE_TOKEN.
func DefaultSources(explicit string) []Source {
	return []Source{FromValue(explicit), FromEnv(EnvAPIKey), FromEnv(EnvToken)}
}

// Resolve returns the first credential found in sources, together with the source it came from.
func Resolve(sources ...Source) (string, Source, error) {
	for _, src := range sources {
		if src == nil {
			continue
		}

		if v, ok := src.Lookup(); ok {
			return v, src, nil
		}
	}

	return "", nil, fmt.Errorf("%w (searched %d sources)", ErrNoCredential, len(sources))
}

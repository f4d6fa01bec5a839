package config

import "os"

// Source is one layer of key/value configuration.
type Source interface {
	Lookup(key string) (string, bool)
}

type SourceFunc func(key string) (string, bool)

func (f SourceFunc) Lookup(key string) (string, bool) {
	return f(key)
}

// Environment reads process environment variables, including those loaded from .env.
var Environment Source = SourceFunc(os.LookupEnv)

// MapSource is injected configuration, typically from tests or a host application.
type MapSource map[string]string

func (m MapSource) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Layered returns a source that consults each layer in order and
// returns the first non-blank value.
func Layered(sources ...Source) Source {
	return SourceFunc(func(key string) (string, bool) {
		for _, source := range sources {
			if v, ok := lookup(source, key); ok {
				return v, true
			}
		}
		return "", false
	})
}

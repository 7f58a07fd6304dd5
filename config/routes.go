package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FortovEgor/ServeMe/http"
)

// Route is one endpoint in a routes manifest. Response and File are mutually
// exclusive; File entries are read from disk when the route is served.
type Route struct {
	Path        string `yaml:"path"`
	Method      string `yaml:"method"`
	Response    string `yaml:"response"`
	File        string `yaml:"file"`
	ContentType string `yaml:"content_type"`
}

type routesManifest struct {
	Routes []Route `yaml:"routes"`
}

// LoadRoutes reads a YAML manifest of endpoints and validates every entry.
// The method defaults to GET.
func LoadRoutes(path string) ([]Route, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest routesManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}

	for i := range manifest.Routes {
		route := &manifest.Routes[i]
		if route.Method == "" {
			route.Method = "GET"
		}
		if _, ok := http.ParseMethod(route.Method); !ok {
			return nil, fmt.Errorf("routes[%d].method: unsupported method %q", i, route.Method)
		}
		if route.Path == "" {
			return nil, fmt.Errorf("routes[%d].path: required", i)
		}
		if !strings.HasPrefix(route.Path, "/") {
			return nil, fmt.Errorf("routes[%d].path: %q must start with /", i, route.Path)
		}
		if route.Response != "" && route.File != "" {
			return nil, fmt.Errorf("routes[%d]: response and file are mutually exclusive", i)
		}
	}

	return manifest.Routes, nil
}

// Source converts the entry into its registered form; file entries carry the
// file sentinel.
func (route Route) Source() http.Source {
	value := route.Response
	if route.File != "" {
		value = http.FilePrefix + route.File
	}

	return http.Source{Value: value, ContentType: route.ContentType}
}

// ParsedMethod returns the typed method. LoadRoutes must have accepted the
// entry first.
func (route Route) ParsedMethod() http.Method {
	method, _ := http.ParseMethod(route.Method)
	return method
}

// Package config reads the OpenAI settings used by the image request service.
//
// Settings are loaded once at startup and never mutated. Any problem reading
// them leaves every lookup absent instead of failing the process.
package config

import (
	"context"
	"maps"
	"os"

	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/dmorgan81/pairgen/internal/param"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	Category = "OpenAI"

	KeyAPIKey   = "APIKey"
	KeyURL      = "URL"
	KeyEndpoint = "GenerateImageEndpoint"
)

type Settings struct {
	values map[string]any
}

func New(values map[string]any) *Settings {
	return &Settings{values: maps.Clone(values)}
}

// Load reads a YAML or JSON settings document and keeps its OpenAI category.
func Load(ctx context.Context, path string) *Settings {
	log := log.FromContextOrDiscard(ctx).WithGroup("config").With("path", path)
	log.Info("loading settings")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("settings unavailable", "error", err)
		return &Settings{}
	}

	var categories map[string]any
	if err := yaml.Unmarshal(data, &categories); err != nil {
		log.Warn("settings malformed", "error", err)
		return &Settings{}
	}

	values, ok := categories[Category].(map[string]any)
	if !ok {
		log.Warn("settings missing category", "category", Category)
		return &Settings{}
	}
	return &Settings{values: values}
}

// FromFetcher builds settings from every parameter stored under path.
func FromFetcher(ctx context.Context, fetcher param.Fetcher, path string) *Settings {
	log := log.FromContextOrDiscard(ctx).WithGroup("config").With("path", path)
	log.Info("loading settings from parameters")

	params, err := fetcher.FetchAll(ctx, path)
	if err != nil {
		log.Warn("settings unavailable", "error", err)
		return &Settings{}
	}
	return &Settings{values: lo.MapValues(params, func(v string, _ string) any {
		return v
	})}
}

// With returns a copy of s with key set to value.
func (s *Settings) With(key string, value any) *Settings {
	var values map[string]any
	if s != nil {
		values = maps.Clone(s.values)
	}
	if values == nil {
		values = make(map[string]any)
	}
	values[key] = value
	return &Settings{values: values}
}

func (s *Settings) Value(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

func (s *Settings) String(key string) (string, bool) {
	v, ok := s.Value(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

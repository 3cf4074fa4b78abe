package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeSettings(t, "Environment.yaml", `
OpenAI:
  APIKey: sk-test
  URL: https://api.openai.com
  GenerateImageEndpoint: /v1/images/generations
DeepL:
  APIKey: other
`)
	s := Load(context.Background(), path)

	key, ok := s.String(KeyAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "sk-test", key)

	endpoint, ok := s.String(KeyEndpoint)
	assert.True(t, ok)
	assert.Equal(t, "/v1/images/generations", endpoint)

	_, ok = s.Value("DeepL")
	assert.False(t, ok)
}

func TestLoadJSON(t *testing.T) {
	path := writeSettings(t, "Environment.json",
		`{"OpenAI": {"APIKey": "k", "URL": "https://example.com", "GenerateImageEndpoint": "/img"}}`)
	s := Load(context.Background(), path)

	url, ok := s.String(KeyURL)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", url)
}

func TestLoadFailuresAreAbsent(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{"malformed", func(t *testing.T) string { return writeSettings(t, "bad.yaml", "OpenAI: [unterminated") }},
		{"no category", func(t *testing.T) string { return writeSettings(t, "other.yaml", "DeepL:\n  APIKey: k\n") }},
		{"category not a map", func(t *testing.T) string { return writeSettings(t, "scalar.yaml", "OpenAI: nope\n") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(context.Background(), tt.path(t))
			for _, key := range []string{KeyAPIKey, KeyURL, KeyEndpoint} {
				_, ok := s.Value(key)
				assert.False(t, ok, key)
			}
		})
	}
}

func TestStringRequiresString(t *testing.T) {
	s := New(map[string]any{KeyAPIKey: 42, KeyURL: ""})

	v, ok := s.Value(KeyAPIKey)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = s.String(KeyAPIKey)
	assert.False(t, ok)

	url, ok := s.String(KeyURL)
	assert.True(t, ok)
	assert.Empty(t, url)
}

func TestNewCopies(t *testing.T) {
	values := map[string]any{KeyAPIKey: "a"}
	s := New(values)
	values[KeyAPIKey] = "b"

	v, _ := s.String(KeyAPIKey)
	assert.Equal(t, "a", v)
}

func TestNilSettings(t *testing.T) {
	var s *Settings
	_, ok := s.Value(KeyAPIKey)
	assert.False(t, ok)
}

func TestWithOverlays(t *testing.T) {
	base := New(map[string]any{KeyAPIKey: "old", KeyURL: "https://example.com"})
	s := base.With(KeyAPIKey, "secret")

	key, _ := s.String(KeyAPIKey)
	assert.Equal(t, "secret", key)
	url, _ := s.String(KeyURL)
	assert.Equal(t, "https://example.com", url)

	old, _ := base.String(KeyAPIKey)
	assert.Equal(t, "old", old)

	var empty *Settings
	key, ok := empty.With(KeyAPIKey, "k").String(KeyAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "k", key)
}

type fakeFetcher struct {
	values map[string]string
	err    error
}

func (f *fakeFetcher) Fetch(context.Context, string) (string, error) { return "", f.err }

func (f *fakeFetcher) FetchAll(context.Context, string) (map[string]string, error) {
	return f.values, f.err
}

func TestFromFetcher(t *testing.T) {
	s := FromFetcher(context.Background(), &fakeFetcher{values: map[string]string{KeyAPIKey: "k"}}, "/pairgen/openai")
	key, ok := s.String(KeyAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "k", key)

	s = FromFetcher(context.Background(), &fakeFetcher{err: errors.New("denied")}, "/pairgen/openai")
	_, ok = s.Value(KeyAPIKey)
	assert.False(t, ok)
}

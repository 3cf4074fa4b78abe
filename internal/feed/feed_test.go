package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmorgan81/pairgen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	objs []store.Object
	err  error
}

func (f *fakeLister) List(_ context.Context, suffix string) ([]store.Object, error) {
	return f.objs, f.err
}

func TestGenerate(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	lister := &fakeLister{objs: []store.Object{
		{Name: "b.html", Updated: base.Add(time.Hour), Metadata: map[string]string{"id": "b", "left": "sushi", "right": "dog"}},
		{Name: "latest.html", Updated: base, Metadata: map[string]string{"id": "b", "left": "sushi", "right": "dog"}},
		{Name: "a.html", Updated: base, Metadata: map[string]string{"id": "a", "left": "ramen", "right": "cat"}},
		{Name: "stray.html", Updated: base},
	}}

	rss, err := New(lister, "https://pairs.example.com/").Generate(context.Background())
	require.NoError(t, err)

	out := string(rss)
	assert.Contains(t, out, "<title>Pairgen</title>")
	assert.Contains(t, out, "ramen + cat")
	assert.Contains(t, out, "https://pairs.example.com/a.html")
	assert.Contains(t, out, "https://pairs.example.com/b.html")
	assert.NotContains(t, out, "latest.html")
	assert.NotContains(t, out, "stray.html")
	assert.Less(t, strings.Index(out, "ramen + cat"), strings.Index(out, "sushi + dog"))
}

func TestGenerateListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeLister{err: boom}, "").Generate(context.Background())
	assert.ErrorIs(t, err, boom)
}

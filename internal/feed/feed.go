package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/dmorgan81/pairgen/internal/store"
	"github.com/gorilla/feeds"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// Name is the object name the feed is published under.
const Name = "feed.xml"

type Generator struct {
	lister  store.Lister
	siteURL string
}

func New(lister store.Lister, siteURL string) *Generator {
	return &Generator{lister: lister, siteURL: strings.TrimSuffix(siteURL, "/")}
}

func NewGenerator(i *do.Injector) (*Generator, error) {
	return New(do.MustInvoke[store.Lister](i), do.MustInvokeNamed[string](i, "site_url")), nil
}

// Generate renders an RSS feed of every stored pair page.
func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("feed")
	log.Info("generating rss feed")

	feed := feeds.Feed{
		Title:       "Pairgen",
		Description: "Two AI generated images, side by side",
		Link:        &feeds.Link{Href: g.siteURL + "/"},
		Updated:     time.Now(),
	}

	objs, err := g.lister.List(ctx, ".html")
	if err != nil {
		return nil, err
	}
	pages := lo.Filter(objs, func(o store.Object, _ int) bool {
		return o.Metadata["id"] != "" && !strings.HasPrefix(o.Name, "latest")
	})
	for _, p := range pages {
		feed.Add(&feeds.Item{
			Id:      p.Metadata["id"],
			Title:   fmt.Sprintf("%s + %s", p.Metadata["left"], p.Metadata["right"]),
			Link:    &feeds.Link{Href: fmt.Sprintf("%s/%s", g.siteURL, p.Name)},
			Updated: p.Updated,
		})
	}
	log.Debug("collected feed items", "count", len(pages))

	feed.Sort(func(a, b *feeds.Item) bool {
		return a.Updated.Before(b.Updated)
	})
	rss, err := feed.ToRss()
	return []byte(rss), err
}

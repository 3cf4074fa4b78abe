package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmorgan81/pairgen/internal/config"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/samber/do"
)

type OpenAIGenerator struct {
	Client   *http.Client
	Settings *config.Settings
}

func NewOpenAIGenerator(i *do.Injector) (Generator, error) {
	return &OpenAIGenerator{
		Client:   do.MustInvoke[*http.Client](i),
		Settings: do.MustInvoke[*config.Settings](i),
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*Response, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("openai").With("prompt", prompt)

	key, okKey := g.Settings.String(config.KeyAPIKey)
	base, okBase := g.Settings.String(config.KeyURL)
	endpoint, okEndpoint := g.Settings.String(config.KeyEndpoint)
	if !okKey || !okBase || !okEndpoint {
		return nil, ErrConfiguration
	}

	target, err := endpointURL(base + endpoint)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(NewRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("content-type", "application/json")

	log.Info("generating image", "url", target)
	resp, err := g.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return nil, &ResponseError{StatusCode: resp.StatusCode}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("image: decoding response: %w", err)
	}
	log.Info("received image response", "created", out.Created, "images", len(out.Data))
	return &out, nil
}

func (g *OpenAIGenerator) client() *http.Client {
	if g.Client == nil {
		return http.DefaultClient
	}
	return g.Client
}

func endpointURL(raw string) (string, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not absolute", ErrURL, raw)
	}
	return u.String(), nil
}

package inject

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	settings "github.com/dmorgan81/pairgen/internal/config"
	"github.com/dmorgan81/pairgen/internal/feed"
	"github.com/dmorgan81/pairgen/internal/handler"
	"github.com/dmorgan81/pairgen/internal/image"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/dmorgan81/pairgen/internal/page"
	"github.com/dmorgan81/pairgen/internal/param"
	"github.com/dmorgan81/pairgen/internal/prompt"
	"github.com/dmorgan81/pairgen/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

func getenv(key, fallback string) string {
	return lo.Ternary(os.Getenv(key) != "", os.Getenv(key), fallback)
}

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.ProvideNamed[string](injector, "api_key", func(i *do.Injector) (string, error) {
		return do.MustInvoke[param.Fetcher](i).Fetch(ctx, os.Getenv("API_KEY_PARAM"))
	})
	do.Provide[*settings.Settings](injector, func(i *do.Injector) (*settings.Settings, error) {
		var s *settings.Settings
		if path := os.Getenv("SETTINGS_PARAM"); path != "" {
			s = settings.FromFetcher(ctx, do.MustInvoke[param.Fetcher](i), path)
		} else {
			s = settings.Load(ctx, getenv("SETTINGS_FILE", "Environment.yaml"))
		}
		if os.Getenv("API_KEY_PARAM") == "" {
			return s, nil
		}
		key, err := do.InvokeNamed[string](i, "api_key")
		if err != nil {
			log.Warn("api key parameter unavailable", "error", err)
			return s, nil
		}
		return s.With(settings.KeyAPIKey, key), nil
	})
	do.ProvideNamed[[]string](injector, "prompts", func(i *do.Injector) ([]string, error) {
		path := os.Getenv("PROMPTS_PARAM")
		if path == "" {
			return prompt.DefaultPrompts, nil
		}
		prompts, err := do.MustInvoke[param.Fetcher](i).FetchAll(ctx, path)
		if err != nil {
			return nil, err
		}
		return lo.Values(prompts), nil
	})

	do.Provide[store.Store](injector, func(i *do.Injector) (store.Store, error) {
		if bucket := os.Getenv("BUCKET"); bucket != "" {
			return &store.S3Store{Client: do.MustInvoke[*s3.Client](i), Bucket: bucket}, nil
		}
		return &store.FileStore{Dir: getenv("OUTPUT_DIR", "out")}, nil
	})
	do.Provide[store.Uploader](injector, func(i *do.Injector) (store.Uploader, error) {
		return do.MustInvoke[store.Store](i), nil
	})
	do.Provide[store.Lister](injector, func(i *do.Injector) (store.Lister, error) {
		return do.MustInvoke[store.Store](i), nil
	})
	do.Provide[store.Invalidator](injector, func(i *do.Injector) (store.Invalidator, error) {
		if distribution := os.Getenv("DISTRIBUTION"); distribution != "" {
			return &store.CloudFrontInvalidator{Client: do.MustInvoke[*cloudfront.Client](i), Distribution: distribution}, nil
		}
		return store.NopInvalidator{}, nil
	})
	do.ProvideNamedValue[string](injector, "site_url", strings.TrimSuffix(getenv("SITE_URL", "."), "/"))

	do.Provide[*prompt.Randomizer](injector, prompt.NewRandomizer)
	do.Provide[image.Generator](injector, image.NewOpenAIGenerator)
	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[*feed.Generator](injector, feed.NewGenerator)

	do.Provide[*handler.Handler](injector, handler.NewHandler)

	return injector
}

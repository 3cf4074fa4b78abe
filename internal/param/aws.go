package param

import (
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// SSMAPI is the subset of *ssm.Client used by ParameterStoreFetcher.
type SSMAPI interface {
	GetParameter(context.Context, *ssm.GetParameterInput, ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	GetParametersByPath(context.Context, *ssm.GetParametersByPathInput, ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

type ParameterStoreFetcher struct {
	client SSMAPI
}

func NewParameterStoreFetcher(i *do.Injector) (Fetcher, error) {
	return &ParameterStoreFetcher{client: do.MustInvoke[*ssm.Client](i)}, nil
}

func (f *ParameterStoreFetcher) Fetch(ctx context.Context, name string) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("parameter store").With("path", name)
	log.Info("fetching single parameter")

	out, err := f.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (f *ParameterStoreFetcher) FetchAll(ctx context.Context, prefix string) (map[string]string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("parameter store").With("path", prefix)
	log.Info("fetching all parameters")

	values := make(map[string]string)
	var token *string
	for {
		out, err := f.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(prefix),
			WithDecryption: aws.Bool(true),
			NextToken:      token,
		})
		if err != nil {
			return nil, err
		}
		values = lo.Assign(values, lo.Associate(out.Parameters, func(p types.Parameter) (string, string) {
			return path.Base(aws.ToString(p.Name)), aws.ToString(p.Value)
		}))
		if aws.ToString(out.NextToken) == "" {
			break
		}
		token = out.NextToken
	}
	log.Debug("fetched parameters", "count", len(values))
	return values, nil
}

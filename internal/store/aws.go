package store

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

type S3Store struct {
	Client S3API
	Bucket string
}

func (u *S3Store) Upload(ctx context.Context, params UploadParams) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("s3").With(
		"name", params.Name,
		"content-type", params.ContentType,
		"metadata", params.Metadata,
		"bucket", u.Bucket,
	)
	log.Info("uploading to s3")

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.Bucket),
		Key:          aws.String(params.Name),
		ContentType:  aws.String(params.ContentType),
		Body:         bytes.NewReader(params.Data),
		Metadata:     params.Metadata,
		StorageClass: s3types.StorageClassIntelligentTiering,
	})
	return err
}

func (u *S3Store) List(ctx context.Context, suffix string) ([]Object, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("s3").With("bucket", u.Bucket, "suffix", suffix)
	log.Info("listing s3 objects")

	pager := s3.NewListObjectsV2Paginator(u.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(u.Bucket),
	})

	var (
		mu   sync.Mutex
		objs []Object
	)
	group, gctx := errgroup.WithContext(ctx)
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			if headErr := group.Wait(); headErr != nil {
				return nil, headErr
			}
			return nil, err
		}

		keys := lo.FilterMap(page.Contents, func(o s3types.Object, _ int) (string, bool) {
			key := aws.ToString(o.Key)
			return key, strings.HasSuffix(key, suffix)
		})
		for _, key := range keys {
			group.Go(func() error {
				out, err := u.Client.HeadObject(gctx, &s3.HeadObjectInput{
					Bucket: aws.String(u.Bucket),
					Key:    aws.String(key),
				})
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				objs = append(objs, Object{
					Name:     key,
					Metadata: out.Metadata,
					Updated:  aws.ToTime(out.LastModified),
				})
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

// CloudFrontAPI is the subset of *cloudfront.Client used by CloudFrontInvalidator.
type CloudFrontAPI interface {
	CreateInvalidation(context.Context, *cloudfront.CreateInvalidationInput, ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

type CloudFrontInvalidator struct {
	Client       CloudFrontAPI
	Distribution string
}

func (i *CloudFrontInvalidator) Invalidate(ctx context.Context, paths []string) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("cloudfront").With("paths", paths, "distribution", i.Distribution)
	log.Info("invalidating paths in cloudfront")

	_, err := i.Client.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(i.Distribution),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(time.Now().UTC().Format("20060102150405.000000000")),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	return err
}

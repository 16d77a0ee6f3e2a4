package aggregate

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// S3API is the subset of the S3 client used by S3Source
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads results from objects under a bucket prefix
type S3Source struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Source creates a source over bucket/prefix
func NewS3Source(client S3API, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// List pages through every object under the prefix
func (s *S3Source) List(ctx context.Context) ([]Object, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	objects := []Object{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &domain.IOError{Op: "list", Path: s.Location(s.prefix), Err: err}
		}
		for _, obj := range page.Contents {
			objects = append(objects, Object{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// Read downloads one object
func (s *S3Source) Read(ctx context.Context, obj Object) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(obj.Key),
	})
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: s.Location(obj.Key), Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: s.Location(obj.Key), Err: err}
	}
	return data, nil
}

// Location returns the s3:// URI of key
func (s *S3Source) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

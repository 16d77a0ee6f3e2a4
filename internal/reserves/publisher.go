package reserves

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// Uploader is the subset of the S3 upload manager the publisher needs.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Publisher uploads reserve results as <prefix><runID>.txt objects, the
// layout the aggregate command sums over.
type S3Publisher struct {
	uploader Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewS3Publisher creates a publisher for bucket/prefix.
func NewS3Publisher(client *s3.Client, bucket, prefix string, log zerolog.Logger) *S3Publisher {
	return newS3Publisher(manager.NewUploader(client), bucket, prefix, log)
}

func newS3Publisher(uploader Uploader, bucket, prefix string, log zerolog.Logger) *S3Publisher {
	return &S3Publisher{
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
		log:      log.With().Str("component", "s3_publisher").Logger(),
	}
}

// Key returns the object key used for runID.
func (p *S3Publisher) Key(runID string) string {
	return p.prefix + runID + ".txt"
}

// Publish uploads the formatted reserve and returns its location.
func (p *S3Publisher) Publish(ctx context.Context, runID string, v float64) (string, error) {
	key := p.Key(runID)
	uri := "s3://" + p.bucket + "/" + key

	out, err := p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(FormatReserve(v)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return "", &domain.IOError{Op: "upload", Path: uri, Err: err}
	}

	p.log.Info().
		Str("location", out.Location).
		Str("key", key).
		Msg("Uploaded reserve result")

	return uri, nil
}

package catalog

import (
	"context"
	"fmt"
	"path"

	"gofresh/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of *s3.Client the loader needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for product files stored in AWS S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based product loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-catalog-loader").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return newS3Loader(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Load reads a gzipped product file from S3. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.Product, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading product file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	products, err := decodeProducts(ctx, result.Body, "s3://"+l.bucket+"/"+key)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to read product file from S3")
		return nil, err
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("products_loaded", len(products)).
		Msg("product file loaded successfully from S3")

	return products, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first and falls back to
// local files. The S3 key is the prefix followed by the file's base name.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-loader").Logger(),
	}
}

// Load attempts S3 and falls back to filePath on the local file system.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	if l.s3Enabled && l.s3Loader != nil {
		key := l.s3Prefix + path.Base(filePath)

		products, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return products, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, filePath)
}

package seed

import (
	"context"
	"fmt"
	"io"

	"bistro/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for reading JSON seed files from AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based seed loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-seed-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 seed loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a JSON seed file from S3. The key parameter should be the full
// S3 key (including any prefix).
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.MenuItem, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading menu seed file from S3")

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

	data, err := io.ReadAll(result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("error reading seed file from S3")
		return nil, fmt.Errorf("error reading seed file from S3 %s: %w", key, err)
	}

	items, err := decodeSeed(data)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to decode seed file from S3")
		return nil, fmt.Errorf("failed to decode seed file from S3 %s: %w", key, err)
	}

	valid := filterValid(items, l.logger)

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("items_loaded", len(valid)).
		Msg("menu seed file loaded from S3")

	return valid, nil
}

// fallbackLoader tries S3 first, then falls back to the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	logger     zerolog.Logger
	s3Enabled  bool
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back to
// the local file system. If s3Loader is nil, only the file loader is used.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "seed-fallback-loader").Logger(),
	}
}

// Load attempts to load from S3 first (prepending the configured prefix to
// the path), then falls back to the local file system.
func (l *fallbackLoader) Load(ctx context.Context, path string) ([]model.MenuItem, error) {
	if l.s3Enabled && l.s3Loader != nil {
		s3Key := l.s3Prefix + path

		items, err := l.s3Loader.Load(ctx, s3Key)
		if err == nil {
			l.logger.Info().Str("s3_key", s3Key).Msg("seed loaded from S3")
			return items, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", s3Key).
			Msg("failed to load seed from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, path)
}

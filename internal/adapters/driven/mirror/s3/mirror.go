package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
	"github.com/custodia-labs/mapstore/internal/logger"
)

// Verify interface compliance.
var _ driven.MapMirror = (*Mirror)(nil)

const defaultRegion = "us-east-1"

// Object metadata keys.
const (
	metaChecksum = "checksum"
	metaOrigin   = "origin"
	metaSize     = "size"
	metaModTime  = "mod-time"
)

// Mirror uploads map files to a single bucket.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates a mirror from settings. Static credentials are used when both
// keys are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg domain.MirrorSettings) (*Mirror, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: s3 bucket required", domain.ErrInvalidInput)
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.HasStaticCredentials() {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// MinIO and other compatible stores reject the newer default checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &Mirror{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key used for the map file at p.
func (m *Mirror) Key(p string) string {
	return path.Join(m.prefix, filepath.Base(p))
}

// Publish implements driven.MapMirror.
func (m *Mirror) Publish(ctx context.Context, fp domain.Fingerprint, p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty map path", domain.ErrInvalidInput)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("read map for mirror: %w", err)
	}

	key := m.Key(p)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata:    metadata(fp),
	}
	start := time.Now()
	if _, err := m.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", m.bucket, key, err)
	}
	logger.Debug("mirrored %s to s3://%s/%s in %v", p, m.bucket, key, time.Since(start))
	return nil
}

// Head returns the fingerprint stored with the mirrored copy of the map
// file at p. It returns domain.ErrNotFound when no copy exists.
func (m *Mirror) Head(ctx context.Context, p string) (domain.Fingerprint, error) {
	key := m.Key(p)
	out, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return domain.Fingerprint{}, domain.ErrNotFound
		}
		return domain.Fingerprint{}, fmt.Errorf("head s3://%s/%s: %w", m.bucket, key, err)
	}
	return fromMetadata(p, out.Metadata), nil
}

func metadata(fp domain.Fingerprint) map[string]string {
	meta := map[string]string{
		metaChecksum: fp.ChecksumString(),
		metaSize:     strconv.FormatInt(fp.Size, 10),
	}
	if fp.OriginName != "" {
		meta[metaOrigin] = fp.OriginName
	}
	if !fp.ModTime.IsZero() {
		meta[metaModTime] = fp.ModTime.UTC().Format(time.RFC3339Nano)
	}
	return meta
}

func fromMetadata(p string, meta map[string]string) domain.Fingerprint {
	fp := domain.Fingerprint{
		OriginName: meta[metaOrigin],
		FileName:   p,
	}
	if sum, ok := domain.ParseChecksum(meta[metaChecksum]); ok {
		fp.Checksum = sum
	}
	if n, err := strconv.ParseInt(meta[metaSize], 10, 64); err == nil {
		fp.Size = n
	}
	if t, err := time.Parse(time.RFC3339Nano, meta[metaModTime]); err == nil {
		fp.ModTime = t
	}
	return fp
}
